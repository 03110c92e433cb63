package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"go-shopping/gateway"
	"go-shopping/models"
	"go-shopping/prefs"
	"go-shopping/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

// flakyStore fails the next Commit when failCommit is set
type flakyStore struct {
	*gateway.MemoryStore
	failCommit bool
}

var errBatchRejected = errors.New("batch rejected")

func (s *flakyStore) Commit(ctx context.Context, ops []gateway.Op) error {
	if s.failCommit {
		s.failCommit = false
		return errBatchRejected
	}
	return s.MemoryStore.Commit(ctx, ops)
}

type fixture struct {
	store    *flakyStore
	gw       *gateway.Gateway
	prefs    *prefs.MemoryStore
	mailer   *recordingMailer
	tokens   *utils.TokenIssuer
	auth     *AuthUsecase
	profile  *ProfileUsecase
	products *ProductUsecase
	cart     *CartUsecase
	address  *AddressUsecase
	checkout *CheckoutUsecase
	orders   *OrderUsecase
	sales    *SalesUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := &flakyStore{MemoryStore: gateway.NewMemoryStore()}
	gw := gateway.New(store, gateway.NewDiskStore(t.TempDir(), "http://test"))
	p := prefs.NewMemoryStore()
	mailer := &recordingMailer{}
	tokens := utils.NewTokenIssuer("test-secret")
	shipping := models.NewMoney(120)

	return &fixture{
		store:    store,
		gw:       gw,
		prefs:    p,
		mailer:   mailer,
		tokens:   tokens,
		auth:     NewAuthUsecase(gw, p, tokens, mailer, "http://test/", log),
		profile:  NewProfileUsecase(gw, p, log),
		products: NewProductUsecase(gw, p, log),
		cart:     NewCartUsecase(gw, shipping),
		address:  NewAddressUsecase(gw),
		checkout: NewCheckoutUsecase(gw, shipping, log),
		orders:   NewOrderUsecase(gw),
		sales:    NewSalesUsecase(gw, log),
	}
}

func (f *fixture) register(t *testing.T, first, email string) models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		FirstName:       first,
		LastName:        "Test",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		TermsAccepted:   true,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) product(t *testing.T, ownerID, title string, price models.Money, stock int64) models.Product {
	t.Helper()
	p := models.Product{UserID: ownerID, UserName: "Seller", Title: title, Price: price, StockQuantity: stock, Image: "http://test/images/" + title}
	id, err := f.gw.Products.Create(context.Background(), p)
	require.NoError(t, err)
	p.ID = id
	return p
}

func (f *fixture) homeAddress(t *testing.T, userID string) models.Address {
	t.Helper()
	a, err := f.address.AddAddress(context.Background(), userID, AddressInput{
		Name:         "Home",
		MobileNumber: "070123456",
		Address:      "Partizanska 1",
		ZipCode:      "1000",
		Type:         models.AddressHome,
	})
	require.NoError(t, err)
	return a
}

func image(name string) *Upload {
	return &Upload{Filename: name, Body: strings.NewReader("image bytes")}
}
