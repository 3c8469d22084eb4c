package scorer

import (
	"strings"

	"github.com/sells-group/bizintel/internal/model"
)

// Per-detection weights. Each detector caps its score at 100.
const (
	conversionWeight  = 20
	emailWeight       = 30
	advertisingWeight = 25
)

// detectConversionTracking tests for analytics and conversion pixels.
// Patterns match the raw markup case-sensitively; tracking snippets are
// pasted verbatim by site owners, so casing is reliable.
func detectConversionTracking(html string) model.ConversionTracking {
	ct := model.ConversionTracking{
		GoogleAnalytics:     strings.Contains(html, "gtag(") || strings.Contains(html, "google-analytics.com"),
		FacebookPixel:       strings.Contains(html, "fbq(") || strings.Contains(html, "facebook.com/tr"),
		GoogleAdsConversion: strings.Contains(html, "google-ads") || strings.Contains(html, "googleadservices.com"),
		Hotjar:              strings.Contains(html, "hotjar.com"),
		Mixpanel:            strings.Contains(html, "mixpanel.com"),
		Amplitude:           strings.Contains(html, "amplitude.com"),
	}

	for _, detected := range []bool{
		ct.GoogleAnalytics, ct.FacebookPixel, ct.GoogleAdsConversion,
		ct.Hotjar, ct.Mixpanel, ct.Amplitude,
	} {
		if detected {
			ct.TotalTrackingTools++
		}
	}
	ct.ConversionTrackingScore = min(ct.TotalTrackingTools*conversionWeight, 100)
	return ct
}

// emailTools is ordered so tools_detected comes out deterministic.
var emailTools = []struct {
	name    string
	pattern string
}{
	{"mailchimp", "mailchimp.com"},
	{"constant_contact", "constantcontact.com"},
	{"klaviyo", "klaviyo.com"},
	{"hubspot", "hubspot.com"},
	{"marketo", "marketo.com"},
	{"mailerlite", "mailerlite.com"},
	{"convertkit", "convertkit.com"},
}

// detectEmailMarketing tests for email automation vendors against the
// lower-cased markup.
func detectEmailMarketing(lowerHTML string) model.EmailMarketing {
	em := model.EmailMarketing{ToolsDetected: []string{}}
	for _, tool := range emailTools {
		if strings.Contains(lowerHTML, tool.pattern) {
			em.ToolsDetected = append(em.ToolsDetected, tool.name)
		}
	}
	em.TotalTools = len(em.ToolsDetected)
	em.EmailAutomationScore = min(em.TotalTools*emailWeight, 100)
	return em
}

// adPlatforms is ordered so active_platforms comes out deterministic.
// Matched case-sensitively against the raw markup.
var adPlatforms = []struct {
	name  string
	match func(html string) bool
}{
	{"google_ads", func(h string) bool {
		return strings.Contains(h, "googleadservices.com") || strings.Contains(h, "googlesyndication.com")
	}},
	{"facebook_ads", func(h string) bool {
		return strings.Contains(h, "facebook.com/tr") || strings.Contains(h, "connect.facebook.net")
	}},
	{"bing_ads", func(h string) bool {
		return strings.Contains(h, "bing.com") || strings.Contains(h, "bat.bing.com")
	}},
	{"twitter_ads", func(h string) bool {
		return strings.Contains(h, "ads-twitter.com")
	}},
	{"linkedin_ads", func(h string) bool {
		return strings.Contains(h, "ads.linkedin.com")
	}},
	{"tiktok_ads", func(h string) bool {
		return strings.Contains(h, "tiktok.com") && strings.Contains(h, "analytics")
	}},
	{"pinterest_ads", func(h string) bool {
		return strings.Contains(h, "pintrk(")
	}},
}

// detectAdvertising tests for paid advertising platform tags.
func detectAdvertising(html string) model.AdvertisingDetected {
	ad := model.AdvertisingDetected{ActivePlatforms: []string{}}
	for _, p := range adPlatforms {
		if p.match(html) {
			ad.ActivePlatforms = append(ad.ActivePlatforms, p.name)
		}
	}
	ad.TotalPlatforms = len(ad.ActivePlatforms)
	ad.AdvertisingPresenceScore = min(ad.TotalPlatforms*advertisingWeight, 100)
	return ad
}
