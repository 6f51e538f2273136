package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD route-template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /healthz": SecurityPublic,

	// Read-only lookups are served without a session.
	"GET /api/v1/categories":    SecurityPublic,
	"GET /api/v1/listings":      SecurityPublic,
	"GET /api/v1/listings/{id}": SecurityPublic,
	"GET /api/v1/transactions":  SecurityPublic,
	"GET /api/v1/users/{id}":    SecurityPublic,
	"GET /api/v1/reviews":       SecurityPublic,

	"POST /api/v1/listings":         SecurityAccess,
	"POST /api/v1/offers":           SecurityAccess,
	"PUT /api/v1/offers":            SecurityAccess,
	"GET /api/v1/offers":            SecurityAccess,
	"GET /api/v1/transactions/{id}": SecurityAccess,
	"PUT /api/v1/transactions/{id}": SecurityAccess,
	"POST /api/v1/reviews":          SecurityAccess,
}

// GetSecurityLevel returns the security level for a method and route template
func GetSecurityLevel(method, route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
