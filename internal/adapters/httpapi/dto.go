package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/paydesk/internal/ports/secondary"
)

// Wire names used by the billing backend.
const (
	wireStatusUnpaid = "belum_bayar"
	wireStatusPaid   = "lunas"
	wireMethodCash   = "tunai"
	wireCustomerOn   = "aktif"
)

type errorBody struct {
	Message any `json:"message"` // string, or []string for validation failures
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    int64   `json:"expiresIn"` // seconds
	User         userDTO `json:"user"`
}

type userDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type tariffDTO struct {
	ID          string          `json:"id"`
	Code        string          `json:"kodeTarif"`
	Description string          `json:"deskripsi"`
	RatePerKWh  decimal.Decimal `json:"tarifPerKwh"`
	PowerVA     int             `json:"daya"`
}

type customerDTO struct {
	ID          string     `json:"id"`
	Code        string     `json:"idPelanggan"`
	Name        string     `json:"namaPelanggan"`
	Address     string     `json:"alamat"`
	Phone       string     `json:"nomorTelepon"`
	MeterNumber string     `json:"nomorMeter"`
	TariffID    string     `json:"tarifId"`
	Tariff      *tariffDTO `json:"tarif"`
	Status      string     `json:"status"`
}

type billDTO struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"pelangganId"`
	Customer   *customerDTO    `json:"pelanggan"`
	Period     string          `json:"bulanTagihan"`
	MeterStart decimal.Decimal `json:"meterAwal"`
	MeterEnd   decimal.Decimal `json:"meterAkhir"`
	UsageKWh   decimal.Decimal `json:"jumlahPemakaian"`
	RatePerKWh decimal.Decimal `json:"tarifPerKwh"`
	UsageCost  decimal.Decimal `json:"biayaPemakaian"`
	AdminFee   decimal.Decimal `json:"biayaAdmin"`
	Penalty    decimal.Decimal `json:"denda"`
	Total      decimal.Decimal `json:"totalTagihan"`
	Status     string          `json:"statusPembayaran"`
	DueDate    string          `json:"jatuhTempo"`
}

type paymentRequest struct {
	BillID string `json:"tagihanId"`
	Method string `json:"metodePembayaran"`
}

type paymentDTO struct {
	ID                string          `json:"id"`
	BillID            string          `json:"tagihanId"`
	Bill              *billDTO        `json:"tagihan"`
	UserID            string          `json:"userId"`
	User              *userDTO        `json:"user"`
	TransactionNumber string          `json:"nomorTransaksi"`
	Amount            decimal.Decimal `json:"totalBayar"`
	Method            string          `json:"metodePembayaran"`
	PaidAt            string          `json:"tanggalPembayaran"`
	Status            string          `json:"statusTransaksi"`
}

type receiptEnvelope struct {
	Receipt *receiptDTO `json:"struk"`
}

type receiptDTO struct {
	TransactionNumber string `json:"nomorTransaksi"`
	PaidAt            string `json:"tanggalPembayaran"`
	Method            string `json:"metodePembayaran"`
	BankName          string `json:"namaBank"`
	Customer          struct {
		Code    string `json:"idPelanggan"`
		Name    string `json:"namaPelanggan"`
		Address string `json:"alamat"`
		Tariff  string `json:"tarif"`
		PowerVA int    `json:"daya"`
	} `json:"pelanggan"`
	Bill struct {
		Period     string          `json:"bulanTagihan"`
		MeterStart decimal.Decimal `json:"meterAwal"`
		MeterEnd   decimal.Decimal `json:"meterAkhir"`
		UsageKWh   decimal.Decimal `json:"jumlahPemakaian"`
		RatePerKWh decimal.Decimal `json:"tarifPerKwh"`
		UsageCost  decimal.Decimal `json:"biayaPemakaian"`
		AdminFee   decimal.Decimal `json:"biayaAdmin"`
		Penalty    decimal.Decimal `json:"denda"`
		Total      decimal.Decimal `json:"totalTagihan"`
	} `json:"tagihan"`
	AmountPaid decimal.Decimal `json:"totalBayar"`
	Status     string          `json:"statusTransaksi"`
	Cashier    string          `json:"kasir"`
}

type paymentPageDTO struct {
	Data     []*paymentDTO `json:"data"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PerPage  int           `json:"perPage"`
	LastPage int           `json:"lastPage"`
}

type dailyReportDTO struct {
	Date             string          `json:"tanggal"`
	TransactionCount int             `json:"totalTransaksi"`
	Revenue          decimal.Decimal `json:"totalPendapatan"`
	Payments         []*paymentDTO   `json:"pembayaran"`
}

func (r *loginResponse) toRecord() *secondary.LoginResult {
	return &secondary.LoginResult{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    time.Duration(r.ExpiresIn) * time.Second,
		User:         *r.User.toRecord(),
	}
}

func (u *userDTO) toRecord() *secondary.UserRecord {
	return &secondary.UserRecord{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

func (c *customerDTO) toRecord() *secondary.CustomerRecord {
	rec := &secondary.CustomerRecord{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Address:     c.Address,
		Phone:       c.Phone,
		MeterNumber: c.MeterNumber,
		TariffID:    c.TariffID,
		Active:      c.Status == wireCustomerOn,
	}
	if c.Tariff != nil {
		rec.Tariff = &secondary.TariffRecord{
			ID:          c.Tariff.ID,
			Code:        c.Tariff.Code,
			Description: c.Tariff.Description,
			RatePerKWh:  c.Tariff.RatePerKWh,
			PowerVA:     c.Tariff.PowerVA,
		}
	}
	return rec
}

func (b *billDTO) toRecord() *secondary.BillRecord {
	return &secondary.BillRecord{
		ID:         b.ID,
		CustomerID: b.CustomerID,
		Period:     b.Period,
		MeterStart: b.MeterStart,
		MeterEnd:   b.MeterEnd,
		UsageKWh:   b.UsageKWh,
		RatePerKWh: b.RatePerKWh,
		UsageCost:  b.UsageCost,
		AdminFee:   b.AdminFee,
		Principal:  b.Total,
		Penalty:    b.Penalty,
		Status:     billStatus(b.Status),
		DueDate:    b.DueDate,
	}
}

func billsToRecords(dtos []*billDTO) []*secondary.BillRecord {
	recs := make([]*secondary.BillRecord, 0, len(dtos))
	for _, d := range dtos {
		recs = append(recs, d.toRecord())
	}
	return recs
}

func (p *paymentDTO) toRecord() *secondary.PaymentRecord {
	rec := &secondary.PaymentRecord{
		ID:                p.ID,
		BillID:            p.BillID,
		TransactionNumber: p.TransactionNumber,
		Amount:            p.Amount,
		Method:            paymentMethod(p.Method),
		PaidAt:            p.PaidAt,
		Status:            p.Status,
	}
	if p.Bill != nil && p.Bill.Customer != nil {
		rec.CustomerName = p.Bill.Customer.Name
	}
	if p.User != nil {
		rec.CashierName = p.User.FullName
	}
	return rec
}

func paymentsToRecords(dtos []*paymentDTO) []*secondary.PaymentRecord {
	recs := make([]*secondary.PaymentRecord, 0, len(dtos))
	for _, d := range dtos {
		recs = append(recs, d.toRecord())
	}
	return recs
}

func (r *receiptDTO) toRecord() *secondary.ReceiptRecord {
	return &secondary.ReceiptRecord{
		TransactionNumber: r.TransactionNumber,
		PaidAt:            r.PaidAt,
		Method:            paymentMethod(r.Method),
		BankName:          r.BankName,
		CustomerCode:      r.Customer.Code,
		CustomerName:      r.Customer.Name,
		CustomerAddress:   r.Customer.Address,
		TariffCode:        r.Customer.Tariff,
		PowerVA:           r.Customer.PowerVA,
		Period:            r.Bill.Period,
		MeterStart:        r.Bill.MeterStart,
		MeterEnd:          r.Bill.MeterEnd,
		UsageKWh:          r.Bill.UsageKWh,
		RatePerKWh:        r.Bill.RatePerKWh,
		UsageCost:         r.Bill.UsageCost,
		AdminFee:          r.Bill.AdminFee,
		Penalty:           r.Bill.Penalty,
		BillTotal:         r.Bill.Total,
		AmountPaid:        r.AmountPaid,
		Status:            r.Status,
		Cashier:           r.Cashier,
	}
}

func billStatus(wire string) string {
	switch wire {
	case wireStatusPaid:
		return secondary.BillStatusPaid
	case wireStatusUnpaid:
		return secondary.BillStatusUnpaid
	}
	return wire
}

func paymentMethod(wire string) string {
	if wire == wireMethodCash {
		return secondary.PaymentMethodCash
	}
	return wire
}

func wirePaymentMethod(method string) string {
	if method == secondary.PaymentMethodCash {
		return wireMethodCash
	}
	return method
}
