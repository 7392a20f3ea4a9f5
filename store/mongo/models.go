package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/types"
)

// ==================== Entry models ====================

type entryModel struct {
	grove.BaseModel `grove:"table:tally_entries"`

	ID             string            `grove:"id,pk"           bson:"_id"`
	Kind           string            `grove:"kind"            bson:"kind"`
	Currency       string            `grove:"currency"        bson:"currency"`
	Description    string            `grove:"description"     bson:"description"`
	DocumentValue  int64             `grove:"document_value"  bson:"document_value"`
	Discount       int64             `grove:"discount"        bson:"discount"`
	Interest       int64             `grove:"interest"        bson:"interest"`
	TotalValue     int64             `grove:"total_value"     bson:"total_value"`
	DownPayment    int64             `grove:"down_payment"    bson:"down_payment"`
	IssueDate      time.Time         `grove:"issue_date"      bson:"issue_date"`
	ManuallyEdited bool              `grove:"manually_edited" bson:"manually_edited"`
	Metadata       map[string]string `grove:"metadata"        bson:"metadata,omitempty"`
	CreatedAt      time.Time         `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time         `grove:"updated_at"      bson:"updated_at"`
}

func toEntryModel(e *entry.Entry) *entryModel {
	return &entryModel{
		ID:             e.ID.String(),
		Kind:           string(e.Kind),
		Currency:       e.Currency,
		Description:    e.Description,
		DocumentValue:  e.DocumentValue.Amount,
		Discount:       e.Discount.Amount,
		Interest:       e.Interest.Amount,
		TotalValue:     e.TotalValue.Amount,
		DownPayment:    e.DownPayment.Amount,
		IssueDate:      e.IssueDate,
		ManuallyEdited: e.ManuallyEdited,
		Metadata:       e.Metadata,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func fromEntryModel(m *entryModel) (*entry.Entry, error) {
	entryID, err := id.ParseEntryID(m.ID)
	if err != nil {
		return nil, err
	}

	money := func(amount int64) types.Money {
		return types.Money{Amount: amount, Currency: m.Currency}
	}

	return &entry.Entry{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             entryID,
		Kind:           entry.Kind(m.Kind),
		Currency:       m.Currency,
		Description:    m.Description,
		DocumentValue:  money(m.DocumentValue),
		Discount:       money(m.Discount),
		Interest:       money(m.Interest),
		TotalValue:     money(m.TotalValue),
		DownPayment:    money(m.DownPayment),
		IssueDate:      m.IssueDate,
		ManuallyEdited: m.ManuallyEdited,
		Metadata:       m.Metadata,
	}, nil
}

// ==================== Installment models ====================

type installmentModel struct {
	grove.BaseModel `grove:"table:tally_installments"`

	ID             string     `grove:"id,pk"           bson:"_id"`
	EntryID        string     `grove:"entry_id"        bson:"entry_id"`
	Number         int        `grove:"number"          bson:"number"`
	Currency       string     `grove:"currency"        bson:"currency"`
	DueDate        time.Time  `grove:"due_date"        bson:"due_date"`
	ExpectedAmount int64      `grove:"expected_amount" bson:"expected_amount"`
	PaidAmount     int64      `grove:"paid_amount"     bson:"paid_amount"`
	PaidDate       *time.Time `grove:"paid_date"       bson:"paid_date,omitempty"`
	Canceled       bool       `grove:"canceled"        bson:"canceled"`
	Status         string     `grove:"status"          bson:"status"`
	CreatedAt      time.Time  `grove:"created_at"      bson:"created_at"`
	UpdatedAt      time.Time  `grove:"updated_at"      bson:"updated_at"`
}

func toInstallmentModel(in *entry.Installment) *installmentModel {
	return &installmentModel{
		ID:             in.ID.String(),
		EntryID:        in.EntryID.String(),
		Number:         in.Number,
		Currency:       in.ExpectedAmount.Currency,
		DueDate:        in.DueDate,
		ExpectedAmount: in.ExpectedAmount.Amount,
		PaidAmount:     in.PaidAmount.Amount,
		PaidDate:       in.PaidDate,
		Canceled:       in.Canceled,
		Status:         string(in.Status),
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}
}

func fromInstallmentModel(m *installmentModel) (entry.Installment, error) {
	installmentID, err := id.ParseInstallmentID(m.ID)
	if err != nil {
		return entry.Installment{}, err
	}
	entryID, err := id.ParseEntryID(m.EntryID)
	if err != nil {
		return entry.Installment{}, err
	}

	return entry.Installment{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             installmentID,
		EntryID:        entryID,
		Number:         m.Number,
		DueDate:        m.DueDate,
		ExpectedAmount: types.Money{Amount: m.ExpectedAmount, Currency: m.Currency},
		PaidAmount:     types.Money{Amount: m.PaidAmount, Currency: m.Currency},
		PaidDate:       m.PaidDate,
		Canceled:       m.Canceled,
		Status:         entry.Status(m.Status),
	}, nil
}

// ==================== Payment models ====================

type paymentModel struct {
	grove.BaseModel `grove:"table:tally_payments"`

	ID                string            `grove:"id,pk"              bson:"_id"`
	EntryID           string            `grove:"entry_id"           bson:"entry_id"`
	InstallmentID     string            `grove:"installment_id"     bson:"installment_id"`
	InstallmentNumber int               `grove:"installment_number" bson:"installment_number"`
	Currency          string            `grove:"currency"           bson:"currency"`
	Amount            int64             `grove:"amount"             bson:"amount"`
	PaidAt            time.Time         `grove:"paid_at"            bson:"paid_at"`
	Reference         string            `grove:"reference"          bson:"reference"`
	Metadata          map[string]string `grove:"metadata"           bson:"metadata,omitempty"`
	CreatedAt         time.Time         `grove:"created_at"         bson:"created_at"`
	UpdatedAt         time.Time         `grove:"updated_at"         bson:"updated_at"`
}

func toPaymentModel(p *payment.Payment) *paymentModel {
	return &paymentModel{
		ID:                p.ID.String(),
		EntryID:           p.EntryID.String(),
		InstallmentID:     p.InstallmentID.String(),
		InstallmentNumber: p.InstallmentNumber,
		Currency:          p.Amount.Currency,
		Amount:            p.Amount.Amount,
		PaidAt:            p.PaidAt,
		Reference:         p.Reference,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func fromPaymentModel(m *paymentModel) (*payment.Payment, error) {
	paymentID, err := id.ParsePaymentID(m.ID)
	if err != nil {
		return nil, err
	}
	entryID, err := id.ParseEntryID(m.EntryID)
	if err != nil {
		return nil, err
	}
	installmentID, err := id.ParseInstallmentID(m.InstallmentID)
	if err != nil {
		return nil, err
	}

	return &payment.Payment{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                paymentID,
		EntryID:           entryID,
		InstallmentID:     installmentID,
		InstallmentNumber: m.InstallmentNumber,
		Amount:            types.Money{Amount: m.Amount, Currency: m.Currency},
		PaidAt:            m.PaidAt,
		Reference:         m.Reference,
		Metadata:          m.Metadata,
	}, nil
}
