package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/asifzaman/kaajwala/configs"
	"github.com/asifzaman/kaajwala/database"
	"github.com/asifzaman/kaajwala/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GenerateReceipt renders a PDF receipt for a confirmed transaction and
// stores the upload URL on the row. Best effort: a failure here never
// affects settlement, the payment is already final.
func GenerateReceipt(txnID uuid.UUID) {
	var txn models.PaymentTransaction
	if err := database.DB.Preload("Booking.Customer").First(&txn, "id = ?", txnID).Error; err != nil {
		log.Printf("🔥 Receipt: transaction %s not found: %v", txnID, err)
		return
	}
	if txn.Status != models.TxnConfirmed {
		return
	}

	htmlData, err := generateReceiptHTML(&txn)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, txn.BookingID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	txn.ReceiptURL = &uploadURL
	if err := database.DB.Save(&txn).Error; err != nil {
		log.Printf("🔥 Failed to save receipt URL for transaction %s: %v", txnID, err)
	} else {
		log.Printf("✅ Generated receipt for booking %s.", txn.Booking.BookingNumber)
	}
}

func generateReceiptHTML(txn *models.PaymentTransaction) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		CustomerName  string
		BookingNumber string
		Gateway       string
		Amount        string
		PointsUsed    int
		PaidDate      string
	}{
		CustomerName:  txn.Booking.Customer.FullName,
		BookingNumber: txn.Booking.BookingNumber,
		Gateway:       txn.Gateway,
		Amount:        fmt.Sprintf("৳%.2f", txn.Amount),
		PointsUsed:    txn.PointsRedeemed,
		PaidDate:      time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, bookingID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", bookingID, uuid.New().String()),
		Folder:       "kaajwala_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
