package config

import (
	"log"

	"github.com/bartr-club/bartr-backend/models"
)

// Pricing keys read by the voucher, gift card and advertisement flows.
// Values are points unless the key says otherwise.
var defaultSiteSettings = map[string]string{
	"voucher_cost":                        "10",
	"gift_card_cost":                      "10",
	"advertisement_cost":                  "10",
	"advertisement_extension_cost_per_day": "1",
	"signup_bonus_points":                 "1000",
}

// seedSiteSettings inserts missing pricing keys without touching values
// an operator has already changed.
func seedSiteSettings() {
	for key, value := range defaultSiteSettings {
		var count int64
		if err := DB.Model(&models.SiteSetting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			log.Printf("Failed to check site setting %s: %v", key, err)
			continue
		}
		if count == 0 {
			setting := models.SiteSetting{Key: key, Value: value}
			if err := DB.Create(&setting).Error; err != nil {
				log.Printf("Failed to seed site setting %s: %v", key, err)
			}
		}
	}
}

// GetSiteSetting returns the stored value for key, or fallback when the
// key is absent or unreadable.
func GetSiteSetting(key, fallback string) string {
	var setting models.SiteSetting
	if err := DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	if setting.Value == "" {
		return fallback
	}
	return setting.Value
}
