// ABOUTME: Built-in service catalog used when no catalog file is configured
// ABOUTME: Prices are in MXN and grouped by category
package catalog

import "github.com/shopspring/decimal"

const DefaultCurrency = "MXN"

// Categories.
const (
	CategorySocial     = "social media"
	CategoryWeb        = "web"
	CategoryAds        = "ads"
	CategoryBranding   = "branding"
	CategoryContent    = "content"
	CategorySEO        = "seo"
	CategoryAutomation = "automation"
)

func svc(id, name, desc string, price int64, category string) Service {
	return Service{ID: id, Name: name, Description: desc, BasePrice: decimal.NewFromInt(price), Category: category}
}

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Currency: DefaultCurrency,
		Services: []Service{
			svc("social_basic", "Social Media Basic", "Two networks, 12 posts per month", 6000, CategorySocial),
			svc("social_pro", "Social Media Pro", "Three networks, 20 posts, stories and community management", 12000, CategorySocial),
			svc("social_premium", "Social Media Premium", "Full management, reels, monthly reporting", 20000, CategorySocial),
			svc("web_landing", "Landing Page", "Single conversion page with contact form", 8000, CategoryWeb),
			svc("web_corporate", "Corporate Website", "Up to eight sections, CMS and basic SEO", 18000, CategoryWeb),
			svc("web_ecommerce", "Online Store", "Catalog, checkout and payment gateway", 35000, CategoryWeb),
			svc("ads_setup", "Ads Account Setup", "Pixel, audiences and first campaign", 4000, CategoryAds),
			svc("ads_management", "Ads Management", "Monthly campaign optimisation on Meta and Google", 7000, CategoryAds),
			svc("logo_design", "Logo Design", "Logo with three proposals and two revisions", 5000, CategoryBranding),
			svc("brand_identity", "Brand Identity", "Logo, palette, typography and brand manual", 15000, CategoryBranding),
			svc("photo_session", "Photo Session", "Half-day product or team shoot", 4500, CategoryContent),
			svc("video_production", "Video Production", "Four short-form edited videos", 9000, CategoryContent),
			svc("seo_basic", "SEO Basic", "On-page audit and keyword plan", 5000, CategorySEO),
			svc("seo_advanced", "SEO Advanced", "Technical SEO, content plan and link building", 11000, CategorySEO),
			svc("whatsapp_bot", "WhatsApp Bot", "Automated replies and lead capture on WhatsApp", 8500, CategoryAutomation),
			svc("crm_setup", "CRM Setup", "Pipeline configuration and team onboarding", 10000, CategoryAutomation),
		},
		NeedServices: map[string][]string{
			"social media": {"social_basic", "social_pro", "social_premium"},
			"website":      {"web_landing", "web_corporate"},
			"ecommerce":    {"web_ecommerce", "ads_management"},
			"advertising":  {"ads_setup", "ads_management"},
			"branding":     {"logo_design", "brand_identity"},
			"content":      {"photo_session", "video_production"},
			"seo":          {"seo_basic", "seo_advanced"},
			"automation":   {"whatsapp_bot", "crm_setup"},
			"more sales":   {"ads_management", "web_landing", "whatsapp_bot"},
		},
		DefaultServices: []string{"social_basic", "web_landing"},
	}
}
