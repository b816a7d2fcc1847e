package controllers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
)

// voucherStatsRow is one voucher's line in the statistics report
type voucherStatsRow struct {
	Voucher        models.Voucher
	Purchases      int64
	Redemptions    int64
	PointsEarned   float64
	GiftShares     int64
	GiftClaims     int64
}

func reportPeriodRange(c *gin.Context) (string, time.Time, time.Time, bool) {
	period := c.DefaultQuery("period", "day")
	now := time.Now()
	var startDate, endDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return "", time.Time{}, time.Time{}, false
	}
	return period, startDate, endDate, true
}

func collectVoucherStats(merchantID uint, startDate, endDate time.Time) ([]voucherStatsRow, error) {
	var vouchers []models.Voucher
	if err := config.DB.Where("merchant_id = ?", merchantID).
		Order("created_at DESC").Find(&vouchers).Error; err != nil {
		return nil, err
	}

	rows := make([]voucherStatsRow, 0, len(vouchers))
	for _, v := range vouchers {
		row := voucherStatsRow{Voucher: v}

		config.DB.Model(&models.VoucherPurchase{}).
			Where("voucher_id = ? AND purchased_at >= ? AND purchased_at <= ?", v.ID, startDate, endDate).
			Count(&row.Purchases)
		config.DB.Model(&models.VoucherPurchase{}).
			Where("voucher_id = ? AND redeemed_at >= ? AND redeemed_at <= ?", v.ID, startDate, endDate).
			Count(&row.Redemptions)
		config.DB.Model(&models.VoucherPurchase{}).
			Where("voucher_id = ? AND purchased_at >= ? AND purchased_at <= ?", v.ID, startDate, endDate).
			Select("COALESCE(SUM(purchase_cost), 0)").Scan(&row.PointsEarned)

		if v.IsGiftCard {
			config.DB.Model(&models.GiftCardShare{}).
				Joins("JOIN voucher_purchases ON voucher_purchases.id = gift_card_shares.purchase_id").
				Where("voucher_purchases.voucher_id = ? AND gift_card_shares.created_at >= ? AND gift_card_shares.created_at <= ?",
					v.ID, startDate, endDate).
				Count(&row.GiftShares)
			config.DB.Model(&models.GiftCardShare{}).
				Joins("JOIN voucher_purchases ON voucher_purchases.id = gift_card_shares.purchase_id").
				Where("voucher_purchases.voucher_id = ? AND gift_card_shares.is_claimed = true AND gift_card_shares.claimed_at >= ? AND gift_card_shares.claimed_at <= ?",
					v.ID, startDate, endDate).
				Count(&row.GiftClaims)
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// GetVoucherStatistics returns per-voucher purchase/redemption numbers
// for the merchant over the chosen period.
func GetVoucherStatistics(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	period, startDate, endDate, ok := reportPeriodRange(c)
	if !ok {
		return
	}

	rows, err := collectVoucherStats(merchant.ID, startDate, endDate)
	if err != nil {
		utils.LogError("Failed to collect voucher statistics for merchant %d: %v", merchant.ID, err)
		utils.InternalServerError(c, "Failed to collect statistics", err.Error())
		return
	}

	var totalPurchases, totalRedemptions int64
	var totalPoints float64
	views := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		totalPurchases += row.Purchases
		totalRedemptions += row.Redemptions
		totalPoints += row.PointsEarned
		views = append(views, gin.H{
			"voucher_id":    row.Voucher.ID,
			"title":         row.Voucher.Title,
			"voucher_type":  row.Voucher.VoucherType,
			"is_gift_card":  row.Voucher.IsGiftCard,
			"is_active":     row.Voucher.IsActive,
			"purchases":     row.Purchases,
			"redemptions":   row.Redemptions,
			"points_earned": fmt.Sprintf("%.2f", row.PointsEarned),
			"gift_shares":   row.GiftShares,
			"gift_claims":   row.GiftClaims,
		})
	}

	utils.Success(c, "Voucher statistics retrieved", gin.H{
		"period":     period,
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
		"summary": gin.H{
			"vouchers":          len(rows),
			"total_purchases":   totalPurchases,
			"total_redemptions": totalRedemptions,
			"total_points":      fmt.Sprintf("%.2f", math.Round(totalPoints*100)/100),
		},
		"vouchers": views,
	})
}

// DownloadVoucherStatisticsExcel exports the statistics as a spreadsheet
func DownloadVoucherStatisticsExcel(c *gin.Context) {
	utils.LogInfo("DownloadVoucherStatisticsExcel called")

	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	period, startDate, endDate, ok := reportPeriodRange(c)
	if !ok {
		return
	}

	rows, err := collectVoucherStats(merchant.ID, startDate, endDate)
	if err != nil {
		utils.LogError("Failed to collect voucher statistics: %v", err)
		utils.InternalServerError(c, "Failed to collect statistics", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d voucher rows for Excel report", len(rows))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Voucher Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("BARTR - Voucher Report")
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Merchant: " + merchant.BusinessName)
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	headers := []string{"Voucher ID", "Title", "Type", "Gift Card", "Active", "Purchases", "Redemptions", "Points Earned", "Gift Shares", "Gift Claims"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var totalPurchases, totalRedemptions int64
	var totalPoints float64
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(r.Voucher.ID))
		row.AddCell().SetString(r.Voucher.Title)
		row.AddCell().SetString(r.Voucher.VoucherType)
		row.AddCell().SetBool(r.Voucher.IsGiftCard)
		row.AddCell().SetBool(r.Voucher.IsActive)
		row.AddCell().SetInt(int(r.Purchases))
		row.AddCell().SetInt(int(r.Redemptions))
		row.AddCell().SetFloat(r.PointsEarned)
		row.AddCell().SetInt(int(r.GiftShares))
		row.AddCell().SetInt(int(r.GiftClaims))
		totalPurchases += r.Purchases
		totalRedemptions += r.Redemptions
		totalPoints += r.PointsEarned
	}

	sheet.AddRow() // spacing

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Vouchers", fmt.Sprintf("%d", len(rows))},
		{"Total Purchases", fmt.Sprintf("%d", totalPurchases)},
		{"Total Redemptions", fmt.Sprintf("%d", totalRedemptions)},
		{"Total Points Earned", fmt.Sprintf("%.2f", totalPoints)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=voucher_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated Excel report for merchant %d, period %s", merchant.ID, period)
}

// DownloadVoucherStatisticsPDF exports the statistics as a PDF
func DownloadVoucherStatisticsPDF(c *gin.Context) {
	utils.LogInfo("DownloadVoucherStatisticsPDF called")

	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	period, startDate, endDate, ok := reportPeriodRange(c)
	if !ok {
		return
	}

	rows, err := collectVoucherStats(merchant.ID, startDate, endDate)
	if err != nil {
		utils.LogError("Failed to collect voucher statistics: %v", err)
		utils.InternalServerError(c, "Failed to collect statistics", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d voucher rows for PDF report", len(rows))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "BARTR - Voucher Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, "Merchant: "+merchant.BusinessName)
	pdf.Ln(6)
	pdf.Cell(0, 8, "Period: "+strings.ToUpper(period)+" | "+startDate.Format("2006-01-02")+" to "+endDate.Format("2006-01-02"))
	pdf.Ln(10)

	headers := []string{"ID", "Title", "Type", "Gift", "Active", "Purchases", "Redemptions", "Points", "Shares", "Claims"}
	colWidths := []float64{15, 70, 30, 18, 18, 25, 28, 25, 20, 20}
	pdf.SetFont("Arial", "B", 11)
	for i, h := range headers {
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	var totalPurchases, totalRedemptions int64
	var totalPoints float64
	pdf.SetFont("Arial", "", 10)
	fill := false
	for _, r := range rows {
		pdf.SetFillColor(245, 245, 245)
		if fill {
			pdf.SetFillColor(230, 240, 255)
		}
		fill = !fill
		pdf.CellFormat(colWidths[0], 8, fmt.Sprintf("%d", r.Voucher.ID), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[1], 8, r.Voucher.Title, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[2], 8, r.Voucher.VoucherType, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[3], 8, yesNo(r.Voucher.IsGiftCard), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[4], 8, yesNo(r.Voucher.IsActive), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[5], 8, fmt.Sprintf("%d", r.Purchases), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[6], 8, fmt.Sprintf("%d", r.Redemptions), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[7], 8, fmt.Sprintf("%.2f", r.PointsEarned), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[8], 8, fmt.Sprintf("%d", r.GiftShares), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[9], 8, fmt.Sprintf("%d", r.GiftClaims), "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
		totalPurchases += r.Purchases
		totalRedemptions += r.Redemptions
		totalPoints += r.PointsEarned
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(220, 230, 250)
	pdf.CellFormat(70, 10, "Summary", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	pdf.SetFillColor(255, 255, 255)
	pdf.CellFormat(50, 8, "Vouchers", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", len(rows)), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Total Purchases", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", totalPurchases), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Total Redemptions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", totalRedemptions), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.CellFormat(50, 8, "Total Points Earned", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", totalPoints), "1", 0, "R", false, 0, "")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=voucher_report_%s.pdf", period))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF file: %v", err)
		utils.InternalServerError(c, "Failed to write PDF file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated PDF report for merchant %d, period %s", merchant.ID, period)
}
