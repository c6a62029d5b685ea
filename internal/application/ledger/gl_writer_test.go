package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	byCode map[string]*ledger.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byCode: make(map[string]*ledger.Account)}
}

func (r *fakeAccountRepo) withAccount(tenantID uuid.UUID, code string, rootType ledger.RootType, isGroup bool) *fakeAccountRepo {
	acct, err := ledger.NewAccount(tenantID, code, code, rootType, "", "")
	if err != nil {
		panic(err)
	}
	acct.IsGroup = isGroup
	r.byCode[code] = acct
	return r
}

func (r *fakeAccountRepo) GetOrCreateDefault(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	if acct, ok := r.byCode[code]; ok {
		return acct, nil
	}
	return nil, ledger.ErrUnknownAccount
}

type fakeEntryRepo struct {
	created []*ledger.GlEntry
}

func (r *fakeEntryRepo) CreateBatch(ctx context.Context, entries []*ledger.GlEntry) error {
	r.created = append(r.created, entries...)
	return nil
}

func TestWriter_Post_BalancedEntriesPersist(t *testing.T) {
	tenantID := uuid.New()
	accounts := newFakeAccountRepo().
		withAccount(tenantID, "INVENTORY", ledger.RootTypeAsset, false).
		withAccount(tenantID, "GRIR", ledger.RootTypeLiability, false)
	entries := &fakeEntryRepo{}
	writer := NewWriter(accounts, entries)

	now := time.Now()
	req := PostingRequest{
		TenantID:    tenantID,
		Currency:    "USD",
		PostingDate: now,
		PostingTs:   now,
		VoucherType: "Purchase Receipt",
		VoucherNo:   "PR-0001",
		Lines: []PostingLine{
			{AccountCode: "INVENTORY", Debit: decimal.NewFromInt(100)},
			{AccountCode: "GRIR", Credit: decimal.NewFromInt(100)},
		},
	}

	posted, err := writer.Post(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, posted, 2)
	assert.Len(t, entries.created, 2)

	var totalDebit, totalCredit decimal.Decimal
	for _, e := range posted {
		totalDebit = totalDebit.Add(e.DebitBc)
		totalCredit = totalCredit.Add(e.CreditBc)
	}
	assert.True(t, totalDebit.Equal(totalCredit))
}

func TestWriter_Post_RejectsUnbalancedLines(t *testing.T) {
	tenantID := uuid.New()
	accounts := newFakeAccountRepo().
		withAccount(tenantID, "INVENTORY", ledger.RootTypeAsset, false).
		withAccount(tenantID, "GRIR", ledger.RootTypeLiability, false)
	writer := NewWriter(accounts, &fakeEntryRepo{})

	now := time.Now()
	req := PostingRequest{
		TenantID: tenantID, Currency: "USD", PostingDate: now, PostingTs: now,
		VoucherType: "Purchase Receipt", VoucherNo: "PR-0002",
		Lines: []PostingLine{
			{AccountCode: "INVENTORY", Debit: decimal.NewFromInt(100)},
			{AccountCode: "GRIR", Credit: decimal.NewFromInt(90)},
		},
	}

	_, err := writer.Post(context.Background(), req)
	require.ErrorIs(t, err, ledger.ErrUnbalancedVoucher)
}

func TestWriter_Post_RejectsGroupAccount(t *testing.T) {
	tenantID := uuid.New()
	accounts := newFakeAccountRepo().
		withAccount(tenantID, "ASSETS", ledger.RootTypeAsset, true).
		withAccount(tenantID, "GRIR", ledger.RootTypeLiability, false)
	writer := NewWriter(accounts, &fakeEntryRepo{})

	now := time.Now()
	req := PostingRequest{
		TenantID: tenantID, Currency: "USD", PostingDate: now, PostingTs: now,
		VoucherType: "Purchase Receipt", VoucherNo: "PR-0003",
		Lines: []PostingLine{
			{AccountCode: "ASSETS", Debit: decimal.NewFromInt(50)},
			{AccountCode: "GRIR", Credit: decimal.NewFromInt(50)},
		},
	}

	_, err := writer.Post(context.Background(), req)
	require.ErrorIs(t, err, ledger.ErrAccountIsGroup)
}

func TestReverse_SwapsDebitAndCredit(t *testing.T) {
	req := PostingRequest{
		Lines: []PostingLine{
			{AccountCode: "INVENTORY", Debit: decimal.NewFromInt(100), Remarks: "original"},
		},
	}
	reversed := Reverse(req)
	require.Len(t, reversed.Lines, 1)
	assert.True(t, reversed.Lines[0].Credit.Equal(decimal.NewFromInt(100)))
	assert.True(t, reversed.Lines[0].Debit.IsZero())
	assert.Equal(t, "original", reversed.Lines[0].Remarks)
}

func TestWriter_Post_SkipsZeroLines(t *testing.T) {
	tenantID := uuid.New()
	accounts := newFakeAccountRepo().
		withAccount(tenantID, "INVENTORY", ledger.RootTypeAsset, false).
		withAccount(tenantID, "GRIR", ledger.RootTypeLiability, false)
	writer := NewWriter(accounts, &fakeEntryRepo{})

	now := time.Now()
	req := PostingRequest{
		TenantID: tenantID, Currency: "USD", PostingDate: now, PostingTs: now,
		VoucherType: "Purchase Receipt", VoucherNo: "PR-0004",
		Lines: []PostingLine{
			{AccountCode: "INVENTORY", Debit: decimal.NewFromInt(100)},
			{AccountCode: "GRIR", Credit: decimal.NewFromInt(100)},
			{AccountCode: "INVENTORY", Debit: decimal.Zero, Credit: decimal.Zero},
		},
	}

	posted, err := writer.Post(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, posted, 2)
}
