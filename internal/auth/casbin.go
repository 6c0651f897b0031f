package auth

import (
	"log"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	appmodel "medlink.com/internal/model"
)

// InitCasbin defines the RBAC model and initializes the enforcer with GORM adapter
func InitCasbin(db *gorm.DB) (*casbin.Enforcer, error) {
	// GORM adapter creates the casbin_rule table
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}

	// r = request (who, what, how)
	// p = policy (who, what, how)
	// g = grouping (role hierarchy)
	// m = matcher (how to match request to policy)
	text := `
		[request_definition]
		r = sub, obj, act

		[policy_definition]
		p = sub, obj, act

		[role_definition]
		g = _, _

		[policy_effect]
		e = some(where (p.eft == allow))

		[matchers]
		m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
	`
	// keyMatch2 supports URL parameters like /api/clinics/:id

	m, err := model.NewModelFromString(text)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	// Seed default policies on first boot
	policies, _ := enforcer.GetPolicy()
	if len(policies) == 0 {
		log.Println("Casbin: No policies found, initializing default role policies...")
		seedDefaultPolicies(enforcer)
	}

	log.Println("Casbin initialized successfully")
	return enforcer, nil
}

// seedDefaultPolicies installs the baseline role grid: every role may
// read the clinic directory and manage its own session; doctors and
// hospitals manage records; hospitals manage clinics.
func seedDefaultPolicies(enforcer *casbin.Enforcer) {
	defaults := [][]string{
		{appmodel.RoleDoctor, "/api/records", "(GET)|(POST)"},
		{appmodel.RoleDoctor, "/api/records/:id", "(GET)|(PUT)|(DELETE)"},
		{appmodel.RoleHospital, "/api/records", "(GET)|(POST)"},
		{appmodel.RoleHospital, "/api/records/:id", "(GET)|(PUT)|(DELETE)"},
		{appmodel.RoleHospital, "/api/clinics", "POST"},
		{appmodel.RoleHospital, "/api/clinics/:id", "(PUT)|(DELETE)"},
		{appmodel.RolePatient, "/api/records", "GET"},
		{appmodel.RolePatient, "/api/records/:id", "GET"},
	}
	// Reads open to every role
	for _, role := range appmodel.AllRoles {
		defaults = append(defaults,
			[]string{role, "/api/clinics", "GET"},
			[]string{role, "/api/clinics/:id", "GET"},
			[]string{role, "/api/auth/*", "(GET)|(POST)"},
		)
	}

	for _, p := range defaults {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			log.Printf("Failed to add default policy %v: %v", p, err)
		}
	}
	if err := enforcer.SavePolicy(); err != nil {
		log.Printf("Failed to save default policies: %v", err)
	}
}
