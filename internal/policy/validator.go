// Package policy validates prospective achievement submissions against the
// catalog's eligibility rules before they are accepted. Validation is
// two-layered: metadata shape first, then item- and category-specific
// business rules. Expected violations are returned as structured data, never
// as errors.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/liuwy-dev/tuimian-go-api/internal/catalog"
	"github.com/liuwy-dev/tuimian-go-api/internal/scoring"
)

// Attachment is a piece of uploaded evidence referenced by a submission.
type Attachment struct {
	URL      string `json:"url" validate:"required,url"`
	Name     string `json:"name" validate:"required"`
	MimeType string `json:"mime_type" validate:"omitempty"`
	Size     int64  `json:"size" validate:"omitempty,gt=0"`
}

// TeamMember describes one member of a team submission.
type TeamMember struct {
	Name                string   `json:"name" validate:"required"`
	StudentNumber       string   `json:"student_number" validate:"omitempty,min=6"`
	Role                string   `json:"role" validate:"required"`
	ContributionPercent *float64 `json:"contribution_percent" validate:"omitempty,gte=0,lte=100"`
	IsLeader            bool     `json:"is_leader"`
}

// Submission is a prospective application for one catalog item.
type Submission struct {
	ItemSlug    string                 `json:"item_slug" validate:"required"`
	ObtainedAt  time.Time              `json:"obtained_at" validate:"required"`
	Summary     string                 `json:"summary" validate:"required,min=10,max=2000"`
	Attachments []Attachment           `json:"attachments" validate:"required,min=1,dive"`
	Metadata    map[string]interface{} `json:"metadata"`
	TeamMembers []TeamMember           `json:"team_members" validate:"omitempty,dive"`
}

// StudentState is a read-only snapshot of the student's existing active
// submissions, supplied by the storage collaborator. Quota and soft-cap rules
// are evaluated against it.
type StudentState struct {
	PaperCTierCount               int
	CompetitionCount              int
	OutsideSchoolCompetitionCount int
	CompetitionWorkNames          []string
	AcademicScore                 float64
	ComprehensiveScore            float64
}

// Validator checks submissions against shape schemas and catalog policy.
type Validator struct {
	validate *validator.Validate
	schemas  map[catalog.CategorySlug]*jsonschema.Schema
	cutoff   time.Time
}

// New builds a Validator enforcing the given program cutoff date.
func New(validate *validator.Validate, cutoff time.Time) (*Validator, error) {
	schemas, err := compileMetadataSchemas()
	if err != nil {
		return nil, err
	}

	return &Validator{
		validate: validate,
		schemas:  schemas,
		cutoff:   cutoff,
	}, nil
}

// Validate applies both validation layers and returns the structured result.
// It never fails for expected violations; the result's Violations map carries
// them keyed by field path.
func (v *Validator) Validate(submission Submission, state StudentState) Result {
	result := Result{Violations: Violations{}, Warnings: Violations{}}

	v.validateBaseShape(submission, result.Violations)

	if !submission.ObtainedAt.IsZero() && submission.ObtainedAt.After(v.cutoff) {
		result.Violations.Add("obtainedAt", fmt.Sprintf("材料日期需不晚于 %s", v.cutoff.Format("2006-01-02")))
	}

	item, found := catalog.FindItem(submission.ItemSlug)
	if !found {
		result.Violations.Add("itemSlug", "未知的加分项目，请刷新目录后重试")
		return result
	}

	shapeOK := v.validateMetadataShape(item, submission.Metadata, result.Violations)
	if shapeOK {
		v.validateItemPolicy(item, submission, state, result.Violations)
	}

	if item.HasFlag(catalog.FlagRequiresTeam) && len(submission.TeamMembers) == 0 {
		result.Violations.Add("teamMembers", "该项目需填写团队成员信息")
	}

	v.addSoftCapWarnings(item, state, result.Warnings)

	return result
}

func (v *Validator) validateBaseShape(submission Submission, violations Violations) {
	err := v.validate.Struct(submission)
	if err == nil {
		return
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		violations.Add("submission", err.Error())
		return
	}

	for _, fieldError := range fieldErrors {
		violations.Add(namespaceToPath(fieldError.Namespace()), shapeMessage(fieldError))
	}
}

func (v *Validator) validateMetadataShape(item catalog.Item, metadata map[string]interface{}, violations Violations) bool {
	schema, ok := v.schemas[item.Category]
	if !ok {
		return true
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	err := schema.Validate(normalizeForSchema(metadata))
	if err == nil {
		return true
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		collectSchemaViolations(validationErr, violations)
	} else {
		violations.Add("metadata", err.Error())
	}
	return false
}

// normalizeForSchema round-trips the metadata through JSON so that numeric
// values carry the types the schema library expects.
func normalizeForSchema(metadata map[string]interface{}) interface{} {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return metadata
	}
	var normalized interface{}
	if err := json.Unmarshal(payload, &normalized); err != nil {
		return metadata
	}
	return normalized
}

func (v *Validator) validateItemPolicy(item catalog.Item, submission Submission, state StudentState, violations Violations) {
	metadata := submission.Metadata

	switch item.Category {
	case catalog.CategoryPaper:
		if item.HasFlag(catalog.FlagRequiresFirstInstitution) && !boolField(metadata, "firstUnit") {
			violations.Add("metadata/firstUnit", "需证明厦门大学为第一单位")
		}
		if item.HasFlag(catalog.FlagRequiresFirstAuthor) && floatField(metadata, "authorRank") > 2 {
			violations.Add("metadata/authorRank", "仅计前两作者（导师除外）")
		}
		if stringField(metadata, "level") == "C" && state.PaperCTierCount >= 2 {
			violations.Add("itemSlug", "C 类论文最多计 2 篇")
		}
		if item.HasFlag(catalog.FlagNSCDoubleA) {
			if impactFactor, provided := optionalFloatField(metadata, "impactFactor"); provided && impactFactor < 10 {
				violations.Add("metadata/impactFactor", "NSC 系列需 IF≥10")
			}
		}
	case catalog.CategoryPatent:
		if !boolField(metadata, "firstUnit") {
			violations.Add("metadata/firstUnit", "需提供厦门大学第一单位证明")
		}
	case catalog.CategoryCompetition:
		if item.HasFlag(catalog.FlagLimitedQuota) && state.CompetitionCount >= 3 {
			violations.Add("itemSlug", "同学竞赛加分累计不超过 3 项")
		}
		if boolField(metadata, "isOutsideSchoolProject") && state.OutsideSchoolCompetitionCount >= 1 {
			violations.Add("metadata/isOutsideSchoolProject", "非信息学院竞赛加分最多 1 项")
		}
		if workName := stringField(metadata, "workName"); workName != "" && containsFold(state.CompetitionWorkNames, workName) {
			violations.Add("metadata/workName", "同一作品不可重复申报")
		}
	case catalog.CategoryVolunteer:
		if floatField(metadata, "totalHours") < 200 {
			violations.Add("metadata/totalHours", "志愿服务需累计满 200 小时")
		}
	case catalog.CategorySocialWork:
		computed := floatField(metadata, "coefficient") * floatField(metadata, "advisorScore") / 100
		if computed > 2 {
			violations.Add("metadata/advisorScore", "社会工作折算分数不应超过 2 分")
		}
	case catalog.CategorySpecialAcademic:
		if !boolField(metadata, "hasProfessorEndorsement") {
			violations.Add("metadata/hasProfessorEndorsement", "需提供三名教授联名推荐证明")
		}
	}
}

// addSoftCapWarnings flags submissions whose bucket is already at its ceiling.
// The submission is still accepted, it just may not add points.
func (v *Validator) addSoftCapWarnings(item catalog.Item, state StudentState, warnings Violations) {
	if catalog.IsAcademicCategory(item.Category) && state.AcademicScore >= scoring.AcademicScoreCap {
		warnings.Add("itemSlug", "当前学术专长分数已达到 15 分封顶，提交可能不计分")
	}
	if catalog.IsComprehensiveCategory(item.Category) && state.ComprehensiveScore >= scoring.ComprehensiveScoreCap {
		warnings.Add("itemSlug", "综合表现分已达上限 5 分，提交可能不计分")
	}
}

func shapeMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "此项为必填项"
	case "min":
		return fmt.Sprintf("长度或数量不得小于 %s", fieldError.Param())
	case "max":
		return fmt.Sprintf("长度或数量不得大于 %s", fieldError.Param())
	case "url":
		return "链接格式不正确"
	case "gte":
		return fmt.Sprintf("不得小于 %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("不得大于 %s", fieldError.Param())
	default:
		return fmt.Sprintf("字段不合法（%s）", fieldError.Tag())
	}
}

// namespaceToPath turns a validator namespace such as
// "Submission.Attachments[0].URL" into "attachments/0/url".
func namespaceToPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	var segments []string
	for _, part := range parts {
		name := part
		if idx := strings.Index(part, "["); idx >= 0 {
			name = part[:idx]
			index := strings.TrimSuffix(part[idx+1:], "]")
			segments = append(segments, lowerCamel(name), index)
			continue
		}
		segments = append(segments, lowerCamel(name))
	}
	return strings.Join(segments, "/")
}

func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	if strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func boolField(metadata map[string]interface{}, key string) bool {
	value, _ := metadata[key].(bool)
	return value
}

func stringField(metadata map[string]interface{}, key string) string {
	value, _ := metadata[key].(string)
	return strings.TrimSpace(value)
}

func floatField(metadata map[string]interface{}, key string) float64 {
	value, _ := optionalFloatField(metadata, key)
	return value
}

func optionalFloatField(metadata map[string]interface{}, key string) (float64, bool) {
	raw, ok := metadata[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
