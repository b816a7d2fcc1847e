package controllers

import (
	"sync"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

type contactUpload struct {
	Name  string `json:"name"`
	Phone string `json:"phone" binding:"required"`
}

type contactSyncEntry struct {
	Name         string
	Phone        string
	IsOnWhatsApp bool
}

const contactValidatorWorkers = 8

// validateContactNumbers normalizes and dedupes the submitted numbers,
// then checks them against the WhatsApp validator with a bounded pool
// of workers. Unreachable or failing validations mark the number as
// not on WhatsApp instead of failing the sync.
func validateContactNumbers(uploads []contactUpload) []contactSyncEntry {
	entries := make([]contactSyncEntry, 0, len(uploads))
	seen := make(map[string]bool)
	for _, u := range uploads {
		phone, err := utils.FormatPhoneNumber(u.Phone)
		if err != nil || seen[phone] {
			continue
		}
		seen[phone] = true
		entries = append(entries, contactSyncEntry{Name: u.Name, Phone: phone})
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, contactValidatorWorkers)
	for i := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(entry *contactSyncEntry) {
			defer wg.Done()
			defer func() { <-sem }()
			valid, err := utils.ValidateWhatsAppNumber(entry.Phone)
			if err != nil {
				utils.LogDebug("WhatsApp validation unavailable for %s: %v", entry.Phone, err)
				valid = false
			}
			entry.IsOnWhatsApp = valid
		}(&entries[i])
	}
	wg.Wait()

	return entries
}

// SyncContacts replaces the user's synced address book. Numbers are
// validated concurrently before the transaction opens so the DB is
// only held for the delete-and-insert.
func SyncContacts(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req struct {
		Contacts []contactUpload `json:"contacts" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "contacts array is required.")
		return
	}

	utils.LogInfo("Syncing %d contact(s) for user %d", len(req.Contacts), user.ID)

	entries := validateContactNumbers(req.Contacts)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	// Hard delete so re-synced numbers do not trip the unique index
	if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.WhatsAppContact{}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to clear previous contacts", err.Error())
		return
	}

	synced := 0
	onWhatsApp := 0

	for _, entry := range entries {
		contact := models.WhatsAppContact{
			UserID:       user.ID,
			Name:         entry.Name,
			PhoneNumber:  entry.Phone,
			IsOnWhatsApp: entry.IsOnWhatsApp,
		}
		if err := tx.Create(&contact).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to store contact %s for user %d: %v", entry.Phone, user.ID, err)
			utils.InternalServerError(c, "Failed to store contacts", err.Error())
			return
		}
		synced++
		if entry.IsOnWhatsApp {
			onWhatsApp++
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Synced %d contact(s) for user %d, %d on WhatsApp", synced, user.ID, onWhatsApp)
	utils.Success(c, "Contacts synced successfully", gin.H{
		"synced":      synced,
		"on_whatsapp": onWhatsApp,
		"skipped":     len(req.Contacts) - synced,
	})
}

// ListContacts returns the user's synced contacts. whatsapp_only=true
// narrows to contacts reachable for gift card sharing.
func ListContacts(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.WhatsAppContact{}).Where("user_id = ?", user.ID)
	if c.Query("whatsapp_only") == "true" {
		query = query.Where("is_on_whatsapp = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count contacts", err.Error())
		return
	}
	pagination.SetTotal(total)

	var contacts []models.WhatsAppContact
	if err := query.Order("name ASC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&contacts).Error; err != nil {
		utils.InternalServerError(c, "Failed to list contacts", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, contacts, pagination)
}

// CheckContact validates one phone number against WhatsApp on demand
// and refreshes the stored flag if the contact is already synced.
func CheckContact(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "phone is required.")
		return
	}

	phone, err := utils.FormatPhoneNumber(req.Phone)
	if err != nil {
		utils.BadRequest(c, "Invalid phone number", err.Error())
		return
	}

	valid, err := utils.ValidateWhatsAppNumber(phone)
	if err != nil {
		utils.LogError("WhatsApp validation failed for %s: %v", phone, err)
		utils.InternalServerError(c, "WhatsApp validation is unavailable", err.Error())
		return
	}

	config.DB.Model(&models.WhatsAppContact{}).
		Where("user_id = ? AND phone_number = ?", user.ID, phone).
		Update("is_on_whatsapp", valid)

	utils.Success(c, "Contact checked", gin.H{
		"phone":          phone,
		"is_on_whatsapp": valid,
	})
}
