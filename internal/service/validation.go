package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/rainbowlistings/directory/internal/catalog"
	"github.com/rainbowlistings/directory/internal/dto"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	idnaProfile  = idna.Lookup
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "US"
	lookupTimeout      = 3 * time.Second
	defaultHTTPTimeout = 5 * time.Second
	maxNameLength      = 120
	maxDescription     = 2000
)

var allowedSocialDomains = map[string]string{
	"facebook.com":  "facebook",
	"fb.com":        "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
}

// ValidationError lists the submission fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid submission: " + strings.Join(names, ", ")
}

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// HTTPClient abstracts HTTP requests for link checks.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FormValidator cleans and validates listing submissions.
type FormValidator struct {
	DefaultRegion string
	catalog       *catalog.Catalog
	dnsResolver   DNSResolver
	httpClient    HTTPClient
}

// FormValidatorOption configures optional checks.
type FormValidatorOption func(*FormValidator)

// WithDNSResolver enables MX lookups on submitted email domains.
func WithDNSResolver(resolver DNSResolver) FormValidatorOption {
	return func(v *FormValidator) {
		v.dnsResolver = resolver
	}
}

// WithSystemDNS enables MX lookups through the system resolver.
func WithSystemDNS() FormValidatorOption {
	return WithDNSResolver(systemDNSResolver{})
}

// WithLinkCheck requires submitted social links to answer with 200 OK.
func WithLinkCheck(client HTTPClient) FormValidatorOption {
	return func(v *FormValidator) {
		if client == nil {
			client = &http.Client{Timeout: defaultHTTPTimeout}
		}
		v.httpClient = client
	}
}

// NewFormValidator builds a validator. Phone numbers without a country code are
// read in defaultRegion.
func NewFormValidator(cat *catalog.Catalog, defaultRegion string, opts ...FormValidatorOption) *FormValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	v := &FormValidator{DefaultRegion: region, catalog: cat}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CleanedSubmission holds the normalized values of a valid form.
type CleanedSubmission struct {
	Name        string
	Category    string
	Description string
	Website     string
	Phone       string
	Email       string
	Address     string
	City        string
	State       string
	ZIP         string
	Socials     dto.SocialLinks
}

// Validate checks every field and returns the normalized form, or a
// *ValidationError naming each offending field.
func (v *FormValidator) Validate(ctx context.Context, req dto.SubmitBusinessRequest) (CleanedSubmission, error) {
	fields := map[string]string{}
	out := CleanedSubmission{
		Name:        collapseSpaces(req.Name),
		Description: strings.TrimSpace(req.Description),
		Address:     collapseSpaces(req.Address),
		City:        collapseSpaces(req.City),
		State:       strings.TrimSpace(req.State),
		ZIP:         strings.TrimSpace(req.ZIP),
	}

	switch {
	case out.Name == "":
		fields["name"] = "name is required"
	case len([]rune(out.Name)) > maxNameLength:
		fields["name"] = "name is too long"
	}

	if strings.TrimSpace(req.Category) == "" {
		fields["category"] = "category is required"
	} else if cat, err := v.catalog.Lookup(req.Category); err != nil {
		fields["category"] = "unknown category"
	} else {
		out.Category = cat.Name
	}

	switch {
	case out.Description == "":
		fields["description"] = "description is required"
	case len([]rune(out.Description)) > maxDescription:
		fields["description"] = "description is too long"
	}

	if strings.TrimSpace(req.Phone) == "" {
		fields["phone"] = "phone is required"
	} else if out.Phone = normalizePhone(req.Phone, v.DefaultRegion); out.Phone == "" {
		fields["phone"] = "phone number is not valid"
	}

	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "email is required"
	} else if email, ok := v.cleanEmail(ctx, req.Email); !ok {
		fields["email"] = "email address is not valid"
	} else {
		out.Email = email
	}

	if out.Address == "" {
		fields["address"] = "address is required"
	}
	if out.City == "" {
		fields["city"] = "city is required"
	}
	if out.State == "" {
		fields["state"] = "state is required"
	}
	if out.ZIP == "" {
		fields["zip"] = "zip is required"
	} else if !zipPattern.MatchString(out.ZIP) {
		fields["zip"] = "zip must look like 12345 or 12345-6789"
	}

	if strings.TrimSpace(req.Website) != "" {
		if website, err := cleanWebsite(req.Website); err != nil {
			fields["website"] = "website is not a valid URL"
		} else {
			out.Website = website
		}
	}

	for platform, raw := range map[string]string{
		"facebook":  req.Facebook,
		"instagram": req.Instagram,
		"twitter":   req.Twitter,
		"linkedin":  req.LinkedIn,
	} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		link, ok := v.cleanSocialLink(ctx, platform, raw)
		if !ok {
			fields[platform] = platform + " link must point to " + platform
			continue
		}
		setSocial(&out.Socials, platform, link)
	}

	if len(fields) > 0 {
		return CleanedSubmission{}, &ValidationError{Fields: fields}
	}
	return out, nil
}

func (v *FormValidator) cleanEmail(ctx context.Context, raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return "", false
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !isDomainValid(domain) {
		return "", false
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", false
	}
	if v.dnsResolver != nil && !v.hasMXRecord(ctx, asciiDomain) {
		return "", false
	}
	return email, true
}

func (v *FormValidator) cleanSocialLink(ctx context.Context, platform, raw string) (string, bool) {
	u, err := sanitizeURL(raw)
	if err != nil {
		return "", false
	}
	hostPlatform, ok := hostMatchesAllowed(u.Hostname())
	if !ok || hostPlatform != platform {
		return "", false
	}
	stripTracking(u)
	if v.httpClient != nil && !v.urlResolves(ctx, u.String()) {
		return "", false
	}
	return u.String(), true
}

func (v *FormValidator) hasMXRecord(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	records, err := v.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

func (v *FormValidator) urlResolves(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := v.httpClient.Do(req)
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
		if resp.StatusCode != http.StatusMethodNotAllowed {
			return false
		}
	}

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	resp, err = v.httpClient.Do(getReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func setSocial(links *dto.SocialLinks, platform, value string) {
	switch platform {
	case "facebook":
		links.Facebook = value
	case "instagram":
		links.Instagram = value
	case "twitter":
		links.Twitter = value
	case "linkedin":
		links.LinkedIn = value
	}
}

func hostMatchesAllowed(host string) (string, bool) {
	host = strings.ToLower(strings.Trim(strings.TrimSpace(host), "."))
	if host == "" {
		return "", false
	}
	for domain, platform := range allowedSocialDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}

func cleanWebsite(raw string) (string, error) {
	u, err := sanitizeURL(raw)
	if err != nil {
		return "", err
	}
	if !isDomainValid(u.Hostname()) {
		return "", errors.New("invalid host")
	}
	stripTracking(u)
	return u.String(), nil
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

func collapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
