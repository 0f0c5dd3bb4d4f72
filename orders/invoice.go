package orders

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"dokan/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/orders/:orderid/invoice
// Renders the order as a PDF invoice with a QR code carrying the order
// reference, for courier handover slips.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	o, err := DefaultStore().ByID(ctx, ps.ByName("orderid"))
	if err != nil {
		respondOrderError(w, "PrintInvoice", err)
		return
	}
	if o.UserID != userID && o.SellerID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	qrPNG, err := qrcode.Encode("order:"+o.ID, qrcode.Medium, 256)
	if err != nil {
		log.Println("PrintInvoice QR error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", o.ID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", o.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Ship to: %s, %s, %s", o.ShippingAddress.FullName, o.ShippingAddress.Address, o.ShippingAddress.City))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Price")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, it := range o.Items {
		name := it.ProductName
		if it.Color != "" || it.Size != "" {
			name = fmt.Sprintf("%s (%s %s)", name, it.Color, it.Size)
		}
		pdf.Cell(90, 8, name)
		pdf.Cell(30, 8, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(40, 8, fmt.Sprintf("%.0f", it.Price*float64(it.Quantity)))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Subtotal: %.0f", o.SubTotal))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Shipping: %.0f", o.ShippingCost))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.0f", o.TotalAmount))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("order-qr", 150, 20, 40, 40, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.ID))
	if err := pdf.Output(w); err != nil {
		log.Println("PrintInvoice output error:", err)
	}
}
