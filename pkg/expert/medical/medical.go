// Package medical provides the built-in medical diagnosis knowledge base:
// diagnosis rules for flu, COVID-19, the common cold and allergies, plus
// treatment and test recommendations, and a symptom glossary for user
// interfaces.
package medical

import (
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
)

// Rules returns the medical diagnosis rule set in evaluation order.
func Rules() []kb.Rule {
	return []kb.Rule{
		// Flu diagnosis
		kb.MustRule("R1", []string{"fever", "headache", "body_ache"}, []string{"possible_flu"},
			"Basic flu symptoms suggest possible flu"),
		kb.MustRule("R2", []string{"possible_flu", "sore_throat"}, []string{"likely_flu"},
			"Flu symptoms with sore throat increase likelihood of flu"),
		kb.MustRule("R3", []string{"likely_flu", "fatigue"}, []string{"flu"},
			"Comprehensive flu symptoms confirm flu diagnosis"),

		// COVID-19 diagnosis
		kb.MustRule("R4", []string{"fever", "dry_cough"}, []string{"possible_covid"},
			"Basic COVID symptoms suggest possible COVID-19"),
		kb.MustRule("R5", []string{"possible_covid", "loss_of_taste"}, []string{"likely_covid"},
			"COVID symptoms with taste loss increase COVID likelihood"),
		kb.MustRule("R6", []string{"likely_covid", "shortness_of_breath"}, []string{"covid"},
			"Severe symptoms confirm COVID-19 diagnosis"),

		// Common cold diagnosis
		kb.MustRule("R7", []string{"runny_nose", "sneezing"}, []string{"possible_cold"},
			"Basic cold symptoms suggest possible common cold"),
		kb.MustRule("R8", []string{"possible_cold", "sore_throat"}, []string{"cold"},
			"Cold symptoms with sore throat confirm common cold"),

		// Allergic reaction
		kb.MustRule("R9", []string{"sneezing", "itchy_eyes"}, []string{"possible_allergy"},
			"Basic allergy symptoms suggest possible allergic reaction"),
		kb.MustRule("R10", []string{"possible_allergy", "runny_nose", "no_fever"}, []string{"allergy"},
			"Allergy symptoms without fever confirm allergic reaction"),

		// Treatment recommendations
		kb.MustRule("T1", []string{"flu"},
			[]string{"recommend_rest", "recommend_fluids", "consider_antiviral"},
			"Standard flu treatment recommendations"),
		kb.MustRule("T2", []string{"covid"},
			[]string{"recommend_isolation", "recommend_rest", "monitor_oxygen_levels"},
			"Standard COVID-19 treatment recommendations"),
		kb.MustRule("T3", []string{"cold"},
			[]string{"recommend_rest", "recommend_fluids", "consider_decongestant"},
			"Standard cold treatment recommendations"),
		kb.MustRule("T4", []string{"allergy"},
			[]string{"recommend_antihistamine", "avoid_allergens"},
			"Standard allergy treatment recommendations"),

		// Test recommendations
		kb.MustRule("D1", []string{"possible_covid"}, []string{"recommend_covid_test"},
			"Recommend COVID test for possible COVID cases"),
		kb.MustRule("D2", []string{"possible_flu", "winter_season"}, []string{"recommend_flu_test"},
			"Recommend flu test for possible flu during winter"),

		// Negation rules: no_* are literal fact names, not logical negation
		kb.MustRule("N1", []string{"no_fever", "runny_nose"}, []string{"unlikely_flu"},
			"Without fever, flu is less likely"),
		kb.MustRule("N2", []string{"no_cough", "no_shortness_of_breath"}, []string{"unlikely_covid"},
			"Without respiratory symptoms, COVID is less likely"),
	}
}

// Diagnoses lists the terminal diagnosis facts the rule set can conclude.
func Diagnoses() []string {
	return []string{"flu", "covid", "cold", "allergy"}
}

// SymptomDescriptions returns the symptom glossary for user interfaces.
func SymptomDescriptions() map[string]string {
	return map[string]string{
		"fever":                  "Elevated body temperature above normal",
		"headache":               "Pain or discomfort in the head",
		"body_ache":              "Pain or soreness in muscles",
		"sore_throat":            "Pain or irritation in the throat",
		"fatigue":                "Feeling of extreme tiredness or exhaustion",
		"dry_cough":              "Cough without producing mucus",
		"loss_of_taste":          "Diminished ability to taste food",
		"shortness_of_breath":    "Difficulty breathing or catching breath",
		"runny_nose":             "Excess nasal drainage or discharge",
		"sneezing":               "Sudden, forceful expulsion of air through nose/mouth",
		"itchy_eyes":             "Irritation and itchiness in the eyes",
		"winter_season":          "Currently in winter months",
		"no_fever":               "Normal body temperature",
		"no_cough":               "Absence of coughing",
		"no_shortness_of_breath": "Normal breathing",
	}
}

// Populate loads the medical rule set into an expert system.
func Populate(es *expert.ExpertSystem) error {
	for _, r := range Rules() {
		if err := es.AddRule(r); err != nil {
			return err
		}
	}
	return nil
}
