package domain

// Category is one assessment question within a taxonomy.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CategoryGroup collects related categories under a display title.
type CategoryGroup struct {
	Title string     `json:"title"`
	Items []Category `json:"items"`
}

// ImpactCategories is the fixed "values at risk" taxonomy: 26 categories in
// 6 groups. Category ids are stable identifiers from the Victorian weed risk
// assessment framework; scoring never invents ids outside this table.
var ImpactCategories = []CategoryGroup{
	{
		Title: "Social",
		Items: []Category{
			{ID: "social_access", Label: "Restrict human access?"},
			{ID: "social_tourism", Label: "Reduce tourism?"},
			{ID: "social_injurious", Label: "Injurious to people?"},
			{ID: "social_cultural", Label: "Damage to cultural sites?"},
		},
	},
	{
		Title: "Environmental - Abiotic",
		Items: []Category{
			{ID: "env_flow", Label: "Impact flow?"},
			{ID: "env_water", Label: "Impact water quality?"},
			{ID: "env_erosion", Label: "Increase soil erosion?"},
			{ID: "env_biomass", Label: "Reduce biomass of other species?"},
			{ID: "env_fire", Label: "Change fire regime?"},
		},
	},
	{
		Title: "Environmental - Community Habitat",
		Items: []Category{
			{ID: "hab_high", Label: "Impacts composition of high value EVC?"},
			{ID: "hab_med", Label: "Impacts composition of medium value EVC?"},
			{ID: "hab_low", Label: "Impacts composition of low value EVC?"},
			{ID: "hab_structure", Label: "Impacts structure?"},
			{ID: "hab_flora", Label: "Impacts threatened flora?"},
		},
	},
	{
		Title: "Environmental - Fauna",
		Items: []Category{
			{ID: "fauna_threatened", Label: "Impacts threatened fauna?"},
			{ID: "fauna_non_threatened", Label: "Impacts non threatened fauna?"},
			{ID: "fauna_no_benefit", Label: "No benefits to fauna? (Care if it benefits native species?)"},
			{ID: "fauna_injurious", Label: "Injurious to fauna?"},
		},
	},
	{
		Title: "Environmental - Pest Animal",
		Items: []Category{
			{ID: "pest_food", Label: "Food source to pests?"},
			{ID: "pest_harbor", Label: "Provides harbor?"},
		},
	},
	{
		Title: "Agricultural",
		Items: []Category{
			{ID: "ag_yield", Label: "Impacts yield?"},
			{ID: "ag_quality", Label: "Impacts quality?"},
			{ID: "ag_land_value", Label: "Affects land value?"},
			{ID: "ag_land_use", Label: "Change land use?"},
			{ID: "ag_harvest_costs", Label: "Increase harvest costs?"},
			{ID: "ag_disease", Label: "Disease host/vector?"},
		},
	},
}

// InvasivenessCategories is the fixed invasiveness taxonomy: 15 categories
// in 4 groups.
var InvasivenessCategories = []CategoryGroup{
	{
		Title: "Establishment",
		Items: []Category{
			{ID: "inv_germination", Label: "Germination potential"},
			{ID: "inv_establishment", Label: "Establishment potential"},
			{ID: "inv_disturbance", Label: "Dependance on disturbance"},
		},
	},
	{
		Title: "Growth / Competition",
		Items: []Category{
			{ID: "inv_life_form", Label: "Life form"},
			{ID: "inv_allelopathic", Label: "Allelopathic"},
			{ID: "inv_herb_pressure", Label: "Tolerates herbivory?"},
			{ID: "inv_growth_rate", Label: "Growth rate"},
			{ID: "inv_stress_tolerance", Label: "Stress tolerance"},
		},
	},
	{
		Title: "Reproduction",
		Items: []Category{
			{ID: "inv_repro_system", Label: "Reproductive system"},
			{ID: "inv_propagules_count", Label: "Number of propagules"},
			{ID: "inv_propagule_longevity", Label: "Propagule longevity"},
			{ID: "inv_repro_period", Label: "Reproductive period length"},
			{ID: "inv_maturity_time", Label: "Time to reproductive maturity"},
		},
	},
	{
		Title: "Dispersal",
		Items: []Category{
			{ID: "inv_mechanisms_count", Label: "Number of mechanisms"},
			{ID: "inv_dispersal_distance", Label: "Dispersal distance"},
		},
	},
}

// CategoryIDs flattens a taxonomy into its category ids in declaration order.
func CategoryIDs(groups []CategoryGroup) []string {
	var ids []string
	for _, g := range groups {
		for _, c := range g.Items {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
