package taxonomy

import "fmt"

// PresetCompas names the role dictionaries for the ProPublica COMPAS
// recidivism dataset.
const PresetCompas = "compas"

// Preset returns fresh copies of a built-in pair of role dictionaries.
func Preset(name string) (fairness, structural RoleDict, err error) {
	switch name {
	case PresetCompas:
		return CompasFairness(), CompasStructural(), nil
	default:
		return nil, nil, fmt.Errorf("%w: no preset named %q", ErrRoleDict, name)
	}
}

func CompasFairness() RoleDict {
	return RoleDict{
		{Role: Sensitive, Columns: []string{"sex", "race", "age", "age_cat"}},
		{Role: Covariate, Columns: []string{
			"dob", "juv_fel_count", "juv_misd_count", "juv_other_count",
			"priors_count", "priors_count.1", "name", "c_offense_date",
			"r_offense_date", "vr_offense_date", "days_b_screening_arrest",
			"c_days_from_compas",
		}},
		{Role: Treatment, Columns: []string{
			"decile_score", "decile_score.1", "v_decile_score", "score_text",
			"v_score_text", "type_of_assessment", "v_type_of_assessment",
			"c_charge_degree", "c_charge_desc", "r_charge_degree", "r_charge_desc",
			"vr_charge_degree", "vr_charge_desc",
		}},
		{Role: Target, Columns: []string{"is_recid", "two_year_recid"}},
	}
}

func CompasStructural() RoleDict {
	return RoleDict{
		{Role: Numerical, Columns: []string{
			"age", "juv_fel_count", "juv_misd_count", "juv_other_count",
			"priors_count", "priors_count.1", "days_b_screening_arrest",
			"c_days_from_compas", "decile_score", "decile_score.1",
			"v_decile_score",
		}},
		{Role: Categorical, Columns: []string{
			"sex", "race", "age_cat", "score_text", "v_score_text",
			"type_of_assessment", "v_type_of_assessment", "c_charge_degree",
			"r_charge_degree", "vr_charge_degree", "is_recid", "two_year_recid",
		}},
	}
}
