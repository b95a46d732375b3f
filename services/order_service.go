package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zavattaro/modinha-boutique-app/entity"
	"github.com/zavattaro/modinha-boutique-app/repository"
	"github.com/zavattaro/modinha-boutique-app/utils"
	"gorm.io/gorm"
)

const (
	// Shipping: flat R$ 29,90, free from R$ 299,00 of subtotal.
	shippingFee           = 2990
	freeShippingThreshold = 29900
)

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
)

type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	Products    *repository.ProductRepository
	Coupons     *CouponService
	Settlement  *SettlementService
	MercadoPago *MercadoPagoService

	WhatsAppNumber string
	now            func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	products *repository.ProductRepository,
	coupons *CouponService,
	settlement *SettlementService,
	mp *MercadoPagoService,
	whatsAppNumber string,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, Products: products,
		Coupons: coupons, Settlement: settlement, MercadoPago: mp,
		WhatsAppNumber: whatsAppNumber,
		now:            time.Now,
	}
}

// ----- DTOs from Controller -----

type CheckoutItemIn struct {
	ProductID uint   `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type CustomerIn struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	Notes   string `json:"notes"`
}

type CheckoutReq struct {
	Items         []CheckoutItemIn `json:"items" binding:"required,min=1,dive"`
	Customer      CustomerIn       `json:"customer" binding:"required"`
	PaymentMethod string           `json:"paymentMethod" binding:"required,oneof=whatsapp pix visa master elo hipercard"`
	CouponCode    string           `json:"couponCode"`
}

type PaymentOut struct {
	ID                uint   `json:"id"`
	ProviderPaymentID string `json:"providerPaymentId,omitempty"`
	Status            string `json:"status"`
	StatusDetail      string `json:"statusDetail,omitempty"`
}

type CheckoutRes struct {
	OrderID     uint        `json:"orderId"`
	Reference   string      `json:"reference"`
	Subtotal    int64       `json:"subtotal"`
	ShippingFee int64       `json:"shippingFee"`
	Discount    int64       `json:"discount"`
	Total       int64       `json:"total"`
	WhatsappURL string      `json:"whatsappUrl,omitempty"`
	Payment     *PaymentOut `json:"payment,omitempty"`
}

// Checkout prices the cart from the catalog, applies an optional coupon,
// persists the order and dispatches payment. The coupon is settled exactly
// once, only after the payment step succeeded or was dispatched.
func (s *OrderService) Checkout(ctx context.Context, userID *uint, req *CheckoutReq) (*CheckoutRes, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	// Snapshot prices from the catalog; the client's numbers are not
	// trusted.
	type line struct {
		product   *entity.Product
		qty       int
		unitPrice int64
		size      string
		color     string
	}
	lines := make([]line, 0, len(req.Items))
	var subtotal int64
	for _, it := range req.Items {
		p, err := s.Products.Get(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, storageErr(err)
		}
		if p.Stock < it.Qty {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
		unit := p.Price
		if v := matchVariation(p, it.Size, it.Color); v != nil && v.Price != nil {
			unit = *v.Price
		}
		subtotal += unit * int64(it.Qty)
		lines = append(lines, line{product: p, qty: it.Qty, unitPrice: unit, size: it.Size, color: it.Color})
	}

	shipping := int64(shippingFee)
	if subtotal >= freeShippingThreshold {
		shipping = 0
	}
	orderAmount := subtotal + shipping
	total := orderAmount

	// Coupon: validated against subtotal + shipping, the same amount the
	// discount and commission are computed from.
	var validation *ValidationResult
	if req.CouponCode != "" {
		vr, err := s.Coupons.Validate(ctx, req.CouponCode, orderAmount)
		if err != nil {
			return nil, err
		}
		validation = vr
		total = vr.FinalAmount
	}

	order := &entity.Order{
		Reference:       uuid.NewString(),
		Status:          entity.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		CustomerName:    req.Customer.Name,
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.Customer.Email)),
		CustomerPhone:   req.Customer.Phone,
		CustomerAddress: req.Customer.Address,
		Notes:           req.Customer.Notes,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		Discount:        orderAmount - total,
		Total:           total,
		UserID:          userID,
	}

	var payment *entity.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateOrder(tx, order); err != nil {
			return err
		}
		for _, l := range lines {
			oi := entity.OrderItem{
				OrderID:   order.ID,
				ProductID: l.product.ID,
				Name:      l.product.Name,
				UnitPrice: l.unitPrice,
				Qty:       l.qty,
				Total:     l.unitPrice * int64(l.qty),
				Size:      l.size,
				Color:     l.color,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
			order.Items = append(order.Items, oi)
		}
		if req.PaymentMethod != "whatsapp" {
			payment = &entity.Payment{
				Provider: "mercadopago",
				Method:   req.PaymentMethod,
				Status:   entity.PaymentStatusPending,
				Amount:   total,
				OrderID:  order.ID,
			}
			return s.Repo.CreatePayment(tx, payment)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	res := &CheckoutRes{
		OrderID:     order.ID,
		Reference:   order.Reference,
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Discount:    order.Discount,
		Total:       total,
	}

	if req.PaymentMethod == "whatsapp" {
		res.WhatsappURL = s.whatsAppURL(order, validation)
		s.DB.Model(order).Update("whatsapp_sent", true)
	} else {
		mpPayment, err := s.dispatchPayment(ctx, order, payment)
		if err != nil {
			return nil, err
		}
		res.Payment = &PaymentOut{
			ID:                payment.ID,
			ProviderPaymentID: payment.ProviderPaymentID,
			Status:            payment.Status,
			StatusDetail:      payment.StatusDetail,
		}
		if mpPayment.Status == "rejected" {
			return res, ErrPaymentRejected
		}
	}

	// Settlement happens once, after dispatch. Its amounts are exactly
	// the ones the validator returned above.
	if validation != nil {
		_, err := s.Settlement.Settle(ctx, validation.Coupon.ID, SettleOrder{
			OriginalAmount:   orderAmount,
			DiscountAmount:   validation.DiscountAmount,
			CommissionAmount: validation.CommissionAmount,
			FinalAmount:      validation.FinalAmount,
			OrderReference:   order.Reference,
			CustomerInfo: map[string]any{
				"name":          req.Customer.Name,
				"email":         order.CustomerEmail,
				"phone":         req.Customer.Phone,
				"address":       req.Customer.Address,
				"affiliateId":   validation.Coupon.AffiliateID,
				"affiliateName": validation.Coupon.Affiliate.Name,
			},
		})
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// dispatchPayment sends the order to Mercado Pago and records the outcome
// on the payment row. An approved card payment confirms the order.
func (s *OrderService) dispatchPayment(ctx context.Context, order *entity.Order, payment *entity.Payment) (*MPPayment, error) {
	first, last := splitName(order.CustomerName)
	mpPayment, err := s.MercadoPago.CreatePayment(ctx, MPPaymentRequest{
		TransactionAmount: float64(order.Total) / 100,
		Description:       fmt.Sprintf("Pedido %s - Modinha Boutique", order.Reference),
		PaymentMethodID:   payment.Method,
		Payer:             MPPayer{Email: order.CustomerEmail, FirstName: first, LastName: last},
		ExternalReference: order.Reference,
	})
	if err != nil {
		return nil, err
	}

	payment.ProviderPaymentID = fmt.Sprintf("%d", mpPayment.ID)
	payment.Status = mpPayment.Status
	payment.StatusDetail = mpPayment.StatusDetail

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if mpPayment.Status == "approved" {
			now := s.now()
			payment.PaidAt = &now
			if err := s.Repo.UpdateStatus(tx, order.ID, entity.OrderStatusConfirmed); err != nil {
				return err
			}
		}
		return s.Repo.SavePayment(tx, payment)
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return mpPayment, nil
}

// ListForUser and DetailForUser back the customer's order history.
func (s *OrderService) ListForUser(ctx context.Context, userID uint, limit int) ([]entity.Order, error) {
	return s.Repo.ListForUser(ctx, userID, limit)
}

func (s *OrderService) DetailForUser(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	return s.Repo.GetForUser(ctx, userID, orderID)
}

func matchVariation(p *entity.Product, size, color string) *entity.ProductVariation {
	if size == "" && color == "" {
		return nil
	}
	for i := range p.Variations {
		v := &p.Variations[i]
		vs, _ := v.Attributes["size"].(string)
		vc, _ := v.Attributes["color"].(string)
		if (size == "" || strings.EqualFold(vs, size)) && (color == "" || strings.EqualFold(vc, color)) {
			return v
		}
	}
	return nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// whatsAppURL renders the pt-BR order summary the attendant receives and
// wraps it in a wa.me link.
func (s *OrderService) whatsAppURL(order *entity.Order, validation *ValidationResult) string {
	var b strings.Builder

	b.WriteString("*NOVO PEDIDO - MODINHA BOUTIQUE*\n\n")
	b.WriteString(fmt.Sprintf("*Pedido:* %s\n\n", order.Reference))

	b.WriteString("*Cliente:*\n")
	b.WriteString(fmt.Sprintf("Nome: %s\n", order.CustomerName))
	b.WriteString(fmt.Sprintf("Email: %s\n", order.CustomerEmail))
	b.WriteString(fmt.Sprintf("Telefone: %s\n", order.CustomerPhone))
	b.WriteString(fmt.Sprintf("Endereço: %s\n\n", order.CustomerAddress))

	b.WriteString("*Itens:*\n")
	for i, it := range order.Items {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, it.Name))
		if it.Size != "" {
			b.WriteString(" | Tam: " + it.Size)
		}
		if it.Color != "" {
			b.WriteString(" | Cor: " + it.Color)
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("   Qtd: %d | Preço: %s\n", it.Qty, utils.FormatBRL(it.UnitPrice)))
		b.WriteString(fmt.Sprintf("   Subtotal: %s\n\n", utils.FormatBRL(it.Total)))
	}

	b.WriteString("*Resumo Financeiro:*\n")
	b.WriteString(fmt.Sprintf("• Subtotal: %s\n", utils.FormatBRL(order.Subtotal)))
	if order.ShippingFee == 0 {
		b.WriteString("• Frete: GRÁTIS\n")
	} else {
		b.WriteString(fmt.Sprintf("• Frete: %s\n", utils.FormatBRL(order.ShippingFee)))
	}
	if validation != nil {
		b.WriteString(fmt.Sprintf("• Cupom %s: -%s\n", validation.Coupon.Code, utils.FormatBRL(order.Discount)))
	}
	b.WriteString(fmt.Sprintf("• *Total: %s*\n\n", utils.FormatBRL(order.Total)))

	if order.Notes != "" {
		b.WriteString(fmt.Sprintf("*Observações:* %s\n\n", order.Notes))
	}

	b.WriteString("Pedido confirmado pelo site!\n")
	b.WriteString(s.now().Format("02/01/2006 15:04"))

	return "https://wa.me/" + s.WhatsAppNumber + "?text=" + url.QueryEscape(b.String())
}
