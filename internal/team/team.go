// Package team composes the AI agent roster for a project from its service
// offering and package tier.
package team

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/apexdigital/apex/internal/apperr"
)

// Service is a supported service offering. The zero value is not a valid service.
type Service int

const (
	SuperAITeams Service = iota + 1
	MarketingCampaigns
	EcommerceSolutions
	ContentCreation
	ChatbotsAndAgents
)

type serviceSpec struct {
	name  string
	roles []string
}

var catalog = map[Service]serviceSpec{
	SuperAITeams:       {"Super AI Teams", []string{"Project Manager", "Lead Developer", "QA Specialist"}},
	MarketingCampaigns: {"Marketing Campaigns", []string{"Strategy Agent", "Content Creator", "Analytics Agent"}},
	EcommerceSolutions: {"E-commerce Solutions", []string{"System Architect", "UX Designer", "Integration Specialist"}},
	ContentCreation:    {"Content Creation", []string{"Creative Director", "Video Producer", "Copywriter"}},
	ChatbotsAndAgents:  {"Chatbots & Agents", []string{"Conversation Designer", "NLP Specialist", "Integration Engineer"}},
}

// Services returns every supported service in declaration order.
func Services() []Service {
	return []Service{SuperAITeams, MarketingCampaigns, EcommerceSolutions, ContentCreation, ChatbotsAndAgents}
}

// String returns the display name, e.g. "Chatbots & Agents".
func (s Service) String() string {
	if spec, ok := catalog[s]; ok {
		return spec.name
	}
	return "Unknown Service"
}

// Valid reports whether s is a supported service.
func (s Service) Valid() bool {
	_, ok := catalog[s]
	return ok
}

// BaseRoles returns a copy of the fixed roles for the service.
func (s Service) BaseRoles() []string {
	spec, ok := catalog[s]
	if !ok {
		return nil
	}
	return append([]string(nil), spec.roles...)
}

// ParseService resolves a display name (case-insensitive) to a Service.
func ParseService(name string) (Service, error) {
	trimmed := strings.TrimSpace(name)
	for _, s := range Services() {
		if strings.EqualFold(catalog[s].name, trimmed) {
			return s, nil
		}
	}
	return 0, apperr.New(apperr.KindUnknownService, "unknown service %q", name)
}

// Package is a service level controlling team size.
type Package string

const (
	Starter      Package = "starter"
	Professional Package = "professional"
	Enterprise   Package = "enterprise"
)

// ParsePackage resolves a package tier name (case-insensitive).
func ParsePackage(name string) (Package, error) {
	switch p := Package(strings.ToLower(strings.TrimSpace(name))); p {
	case Starter, Professional, Enterprise:
		return p, nil
	default:
		return "", apperr.Validation("unknown package %q: want starter, professional or enterprise", name)
	}
}

// SupportRole is the fixed extra role for enterprise teams.
const SupportRole = "Support Agent"

// Composer builds role lists. It is safe for concurrent use.
type Composer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewComposer returns a Composer drawing senior roles from src. A nil src
// selects a randomly seeded source.
func NewComposer(src rand.Source) *Composer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Composer{rng: rand.New(src)}
}

// Compose returns the ordered role list for a service and package: the base
// roles, then one "Senior" role for professional, or one "Senior" role plus
// the support role for enterprise.
func (c *Composer) Compose(service Service, pkg Package) ([]string, error) {
	base := service.BaseRoles()
	if base == nil {
		return nil, apperr.New(apperr.KindUnknownService, "unknown service %d", int(service))
	}

	roles := base
	switch pkg {
	case Starter:
	case Professional:
		roles = append(roles, c.senior(base))
	case Enterprise:
		roles = append(roles, c.senior(base), SupportRole)
	default:
		return nil, apperr.Validation("unknown package %q", string(pkg))
	}

	return roles, nil
}

// ComposeByName parses service and package names and composes the team.
func (c *Composer) ComposeByName(service, pkg string) ([]string, error) {
	s, err := ParseService(service)
	if err != nil {
		return nil, err
	}
	p, err := ParsePackage(pkg)
	if err != nil {
		return nil, err
	}
	return c.Compose(s, p)
}

func (c *Composer) senior(base []string) string {
	c.mu.Lock()
	i := c.rng.IntN(len(base))
	c.mu.Unlock()
	return "Senior " + base[i]
}
