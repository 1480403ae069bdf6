package loinc

// Canonical category codes recognized by the rule table.
const (
	CategoryBloodTest = "BLOOD_TEST"
	CategoryUrineTest = "URINE_TEST"
	CategoryImaging   = "IMAGING"
)

// CategoryRule supplies the keyword sets for one canonical category.
// Preferred keywords boost candidates clinically associated with the
// category; exclusion keywords suppress cross-category false positives.
type CategoryRule struct {
	Code       string
	Preferred  []string
	Exclusions []string
}

// categoryAliases maps the human-readable labels used by the UI to
// canonical codes. Inputs not present here are treated as already
// canonical.
var categoryAliases = map[string]string{
	"Blood Test": CategoryBloodTest,
	"Urine Test": CategoryUrineTest,
	"Imaging":    CategoryImaging,
}

var categoryRules = map[string]CategoryRule{
	CategoryBloodTest: {
		Code: CategoryBloodTest,
		Preferred: []string{
			"blood", "serum", "plasma", "hemoglobin", "glucose", "cholesterol",
			"cbc", "platelet", "wbc", "rbc", "hematology", "chemistry",
			"coagulation", "lipid", "thyroid", "hormone", "enzyme",
			"electrolyte", "protein", "vitamin", "mineral",
		},
		Exclusions: []string{
			"urine", "stool", "x-ray", "ct", "mri", "ultrasound", "ecg", "ekg",
		},
	},
	CategoryUrineTest: {
		Code: CategoryUrineTest,
		Preferred: []string{
			"urine", "urinalysis", "albumin", "creatinine", "protein", "kidney",
		},
		Exclusions: []string{
			"blood", "serum", "plasma", "x-ray", "ct", "mri", "ultrasound",
		},
	},
	CategoryImaging: {
		Code: CategoryImaging,
		Preferred: []string{
			"x-ray", "ct", "mri", "ultrasound", "radiograph", "scan", "echo",
			"doppler",
		},
		Exclusions: []string{
			"blood", "serum", "plasma", "urine",
		},
	},
}

// globalExclusions lists non-diagnostic administrative terms. A candidate
// whose name contains any of these is discarded regardless of category.
var globalExclusions = []string{
	"machine", "device", "instrument", "survey", "questionnaire",
	"assessment", "form", "score", "note", "panel",
}

// ResolveCategory maps a label or canonical code to its rule set. The second
// return value is false when the resolved code has no entry in the rule
// table, in which case the request must be rejected as an invalid category.
func ResolveCategory(labelOrCode string) (CategoryRule, bool) {
	code := labelOrCode
	if canonical, ok := categoryAliases[labelOrCode]; ok {
		code = canonical
	}
	rule, ok := categoryRules[code]
	return rule, ok
}
