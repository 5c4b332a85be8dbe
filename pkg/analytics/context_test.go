package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{
			name:      "iPad is a tablet",
			userAgent: "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15",
			want:      DeviceTablet,
		},
		{
			name:      "Android without mobile token is a tablet",
			userAgent: "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36",
			want:      DeviceTablet,
		},
		{
			name:      "iPhone is mobile",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15",
			want:      DeviceMobile,
		},
		{
			name:      "Android phone is mobile",
			userAgent: "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 Mobile Safari/537.36",
			want:      DeviceMobile,
		},
		{
			name:      "desktop Chrome is desktop",
			userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
			want:      DeviceDesktop,
		},
		{
			name:      "macOS Safari is desktop",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/16.0 Safari/605.1.15",
			want:      DeviceDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDevice(tt.userAgent))
		})
	}
}

func TestDeviceTypeWithoutPageContext(t *testing.T) {
	var page *PageContext
	assert.Equal(t, DeviceUnknown, page.DeviceType())
}

func TestDeviceTypeWithoutUserAgent(t *testing.T) {
	page := &PageContext{Path: "/y"}
	assert.Equal(t, DeviceUnknown, page.DeviceType())
}

func TestNewPageContextFromURL(t *testing.T) {
	page, err := NewPageContextFromURL("https://x/y?a=1&b=2", "Title", "agent")
	require.NoError(t, err)

	assert.Equal(t, "/y", page.Path)
	assert.Equal(t, "Title", page.Title)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, page.QueryParams())
}

func TestQueryParamsWithoutPageContext(t *testing.T) {
	var page *PageContext
	params := page.QueryParams()
	require.NotNil(t, params)
	assert.Empty(t, params)
}

func TestQueryParamsIgnoresMalformedQuery(t *testing.T) {
	page := &PageContext{RawQuery: "a=%zz;b"}
	params := page.QueryParams()
	require.NotNil(t, params)
	assert.Empty(t, params)
}
