package policy

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/liuwy-dev/tuimian-go-api/internal/catalog"
)

// Per-category metadata schemas. These are the shape layer of validation: a
// submission's metadata map must conform to the schema of its target item's
// category before any business rule is evaluated.
var metadataSchemaSources = map[catalog.CategorySlug]string{
	catalog.CategoryPaper: `{
		"type": "object",
		"properties": {
			"publicationType": {"enum": ["journal", "conference", "preprint"]},
			"level": {"enum": ["A", "B", "C", "NSC"]},
			"firstUnit": {"type": "boolean"},
			"authorRank": {"type": "integer", "minimum": 1},
			"isAdvisorIncluded": {"type": "boolean"},
			"isEqualFirstAuthor": {"type": "boolean"},
			"impactFactor": {"type": "number", "minimum": 0}
		},
		"required": ["firstUnit", "authorRank"]
	}`,
	catalog.CategoryPatent: `{
		"type": "object",
		"properties": {
			"patentType": {"enum": ["invention"]},
			"firstUnit": {"type": "boolean"},
			"inventorRank": {"type": "integer", "minimum": 1},
			"isAdvisorInventor": {"type": "boolean"}
		},
		"required": ["firstUnit", "inventorRank"]
	}`,
	catalog.CategoryCompetition: `{
		"type": "object",
		"properties": {
			"competitionName": {"type": "string", "minLength": 2},
			"level": {"enum": ["A+", "A", "A-", "B"]},
			"scope": {"enum": ["international", "national", "provincial", "school"]},
			"award": {"type": "string", "minLength": 1},
			"workName": {"type": "string", "minLength": 1},
			"isSameWorkSubmitted": {"type": "boolean"},
			"isOutsideSchoolProject": {"type": "boolean"},
			"teamSize": {"type": "integer", "minimum": 1, "maximum": 20},
			"role": {"type": "string", "minLength": 1}
		},
		"required": ["competitionName", "scope", "award", "workName", "teamSize", "role"]
	}`,
	catalog.CategoryInnovation: `{
		"type": "object",
		"properties": {
			"projectLevel": {"enum": ["national", "provincial", "school"]},
			"role": {"enum": ["leader", "member"]},
			"isConcluded": {"type": "boolean"}
		},
		"required": ["projectLevel", "role"]
	}`,
	catalog.CategoryInternationalInternship: `{
		"type": "object",
		"properties": {
			"organisation": {"type": "string", "minLength": 1},
			"durationMonths": {"type": "number", "minimum": 1}
		},
		"required": ["organisation", "durationMonths"]
	}`,
	catalog.CategoryVolunteer: `{
		"type": "object",
		"properties": {
			"totalHours": {"type": "number", "minimum": 0},
			"recognitions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"level": {"enum": ["national", "provincial", "school"]},
						"title": {"type": "string", "minLength": 1}
					},
					"required": ["title"]
				}
			}
		},
		"required": ["totalHours"]
	}`,
	catalog.CategoryHonor: `{
		"type": "object",
		"properties": {
			"level": {"enum": ["national", "provincial", "school"]},
			"year": {"type": "string", "minLength": 4, "maxLength": 4},
			"title": {"type": "string", "minLength": 1}
		},
		"required": ["level", "title"]
	}`,
	catalog.CategorySocialWork: `{
		"type": "object",
		"properties": {
			"position": {"type": "string", "minLength": 1},
			"academicYear": {"type": "string", "minLength": 4},
			"coefficient": {"type": "number", "minimum": 0},
			"advisorScore": {"type": "number", "minimum": 0, "maximum": 100}
		},
		"required": ["position", "academicYear", "coefficient", "advisorScore"]
	}`,
	catalog.CategorySports: `{
		"type": "object",
		"properties": {
			"competitionName": {"type": "string", "minLength": 1},
			"level": {"enum": ["international", "national", "provincial", "school"]},
			"ranking": {"type": "integer", "minimum": 1},
			"isTeam": {"type": "boolean"}
		},
		"required": ["competitionName", "level", "ranking"]
	}`,
	catalog.CategorySpecialAcademic: `{
		"type": "object",
		"properties": {
			"route": {"enum": ["paper", "competition"]},
			"hasProfessorEndorsement": {"type": "boolean"},
			"defensePlannedDate": {"type": "string", "format": "date"}
		},
		"required": ["route", "hasProfessorEndorsement"]
	}`,
}

func compileMetadataSchemas() (map[catalog.CategorySlug]*jsonschema.Schema, error) {
	compiled := make(map[catalog.CategorySlug]*jsonschema.Schema, len(metadataSchemaSources))
	for category, source := range metadataSchemaSources {
		compiler := jsonschema.NewCompiler()
		url := fmt.Sprintf("tuimian://metadata/%s.json", category)
		if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
			return nil, fmt.Errorf("add metadata schema for %s: %w", category, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile metadata schema for %s: %w", category, err)
		}
		compiled[category] = schema
	}
	return compiled, nil
}

// collectSchemaViolations flattens a jsonschema validation error into
// per-field violations rooted at the metadata path.
func collectSchemaViolations(err *jsonschema.ValidationError, violations Violations) {
	if len(err.Causes) == 0 {
		violations.Add("metadata"+err.InstanceLocation, err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaViolations(cause, violations)
	}
}
