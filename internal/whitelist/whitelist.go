package whitelist

import (
	"net/mail"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Checker reports whether a sender address belongs to a trusted domain
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker. Domains are matched
// case-insensitively; blank entries are ignored.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := lo.Uniq(lo.FilterMap(domains, func(d string, _ int) (string, bool) {
		d = strings.ToLower(strings.TrimSpace(d))
		return d, d != ""
	}))

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized whitelist checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: lo.SliceToMap(normalized, func(d string) (string, struct{}) { return d, struct{}{} }),
		logger:  logger,
	}
}

// Len returns the number of whitelisted domains.
func (c *Checker) Len() int {
	return len(c.domains)
}

// IsWhitelisted checks if the sender's domain is in the whitelist. from may
// be a bare address or a full "Name <addr>" header value.
func (c *Checker) IsWhitelisted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	addr := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(addr); err == nil {
		addr = parsed.Address
	}

	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(parts[1])

	if _, ok := c.domains[domain]; !ok {
		return false
	}
	if c.logger != nil {
		c.logger.Debug("Domain is whitelisted",
			zap.String("domain", domain),
			zap.String("email", from))
	}
	return true
}
