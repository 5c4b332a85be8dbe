package analytics

import (
	"net/url"
	"strings"
)

// Device classification values attached to tracked events.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// PageContext carries the page environment captured at client construction.
// A nil PageContext models a headless caller with no page to describe:
// events then carry empty page fields and the unknown device type.
type PageContext struct {
	Path      string
	Title     string
	RawQuery  string
	UserAgent string
}

// NewPageContextFromURL parses a full page URL into a PageContext.
func NewPageContextFromURL(rawURL, title, userAgent string) (*PageContext, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return &PageContext{
		Path:      parsed.Path,
		Title:     title,
		RawQuery:  parsed.RawQuery,
		UserAgent: userAgent,
	}, nil
}

// QueryParams returns the page query string as a flat map. Repeated keys
// keep their first value.
func (p *PageContext) QueryParams() map[string]string {
	params := make(map[string]string)
	if p == nil || p.RawQuery == "" {
		return params
	}

	values, err := url.ParseQuery(p.RawQuery)
	if err != nil {
		return params
	}
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// DeviceType classifies the captured user agent. Tablets are checked before
// mobile because tablet user agents also contain mobile tokens.
func (p *PageContext) DeviceType() string {
	if p == nil || p.UserAgent == "" {
		return DeviceUnknown
	}
	return ClassifyDevice(p.UserAgent)
}

var tabletTokens = []string{"ipad", "tablet", "kindle", "silk", "playbook"}

var mobileTokens = []string{"iphone", "ipod", "mobi", "blackberry", "windows phone", "opera mini"}

// ClassifyDevice maps a user-agent string onto a device class.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, token := range tabletTokens {
		if strings.Contains(ua, token) {
			return DeviceTablet
		}
	}
	// Android tablets advertise Android without the Mobile token.
	if strings.Contains(ua, "android") && !strings.Contains(ua, "mobile") {
		return DeviceTablet
	}

	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return DeviceMobile
		}
	}
	if strings.Contains(ua, "android") {
		return DeviceMobile
	}

	return DeviceDesktop
}
