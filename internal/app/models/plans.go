package models

// Plan identifies one of the fixed subscription tiers.
type Plan string

const (
	PlanStarter      Plan = "starter"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

// DefaultPlan is preselected on the registration wizard.
const DefaultPlan = PlanProfessional

// PlanInfo describes a tier for the plan-selection and pricing pages.
type PlanInfo struct {
	ID          Plan
	Name        string
	Price       string
	Period      string
	Description string
	Features    []string
}

// PlanCatalog lists the tiers in display order.
var PlanCatalog = []PlanInfo{
	{
		ID:          PlanStarter,
		Name:        "Starter",
		Price:       "$99",
		Period:      "/month",
		Description: "Perfect for small inspection companies",
		Features: []string{
			"Up to 50 inspections/month",
			"Basic AI analysis",
			"Standard reports",
			"Email support",
			"Mobile app access",
		},
	},
	{
		ID:          PlanProfessional,
		Name:        "Professional",
		Price:       "$299",
		Period:      "/month",
		Description: "Ideal for growing businesses",
		Features: []string{
			"Up to 200 inspections/month",
			"Advanced AI analysis",
			"Custom report templates",
			"Priority support",
			"API access",
			"Advanced analytics",
		},
	},
	{
		ID:          PlanEnterprise,
		Name:        "Enterprise",
		Price:       "$799",
		Period:      "/month",
		Description: "For large organizations",
		Features: []string{
			"Unlimited inspections",
			"Full AI capabilities",
			"White-label reports",
			"Dedicated support",
			"Custom integrations",
			"Advanced security",
		},
	},
}

// ValidPlan reports whether id names a known tier.
func ValidPlan(id Plan) bool {
	for _, p := range PlanCatalog {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PlanByID looks a tier up in the catalog.
func PlanByID(id Plan) (PlanInfo, bool) {
	for _, p := range PlanCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return PlanInfo{}, false
}
