package kvstore_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/haingladys/jsdc-accounting/internal/kvstore"
)

func TestKVStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "KVStore Suite")
}

type MockRepository struct {
	values     map[string]string
	shouldFail bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{values: make(map[string]string)}
}

func (m *MockRepository) SetShouldFail(fail bool) {
	m.shouldFail = fail
}

func (m *MockRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if m.shouldFail {
		return "", false, errors.New("storage unavailable")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockRepository) Put(ctx context.Context, key, value string) error {
	if m.shouldFail {
		return errors.New("storage unavailable")
	}
	m.values[key] = value
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type settingsDoc struct {
	CompanyName string `json:"company_name"`
	Currency    string `json:"currency"`
}

var _ = Describe("Store", func() {
	var (
		repo  *MockRepository
		store *kvstore.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = kvstore.NewStore(repo, logger)
		ctx = context.Background()
	})

	Describe("Load", func() {
		It("returns defaults when the key is missing", func() {
			var categories []string
			err := store.Load(ctx, kvstore.KeyPurchaseCategories, &categories, []string{"Raw Materials", "Other"})

			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]string{"Raw Materials", "Other"}))
		})

		It("decodes a stored value", func() {
			Expect(store.Save(ctx, kvstore.KeySettings, settingsDoc{CompanyName: "JSDC", Currency: "INR"})).To(Succeed())

			var doc settingsDoc
			Expect(store.Load(ctx, kvstore.KeySettings, &doc, settingsDoc{})).To(Succeed())
			Expect(doc.CompanyName).To(Equal("JSDC"))
		})

		It("falls back to defaults for a corrupted value under every key", func() {
			for _, key := range kvstore.Keys {
				repo.values[key] = "{not json"

				var doc settingsDoc
				err := store.Load(ctx, key, &doc, settingsDoc{Currency: "INR"})

				Expect(err).NotTo(HaveOccurred(), key)
				Expect(doc).To(Equal(settingsDoc{Currency: "INR"}), key)
			}
		})

		It("does not leak partially decoded fields from a mistyped value", func() {
			repo.values[kvstore.KeySettings] = `{"company_name":"Half","currency":42}`

			var doc settingsDoc
			Expect(store.Load(ctx, kvstore.KeySettings, &doc, settingsDoc{Currency: "INR"})).To(Succeed())
			Expect(doc).To(Equal(settingsDoc{Currency: "INR"}))
		})

		It("treats an empty value as missing", func() {
			repo.values[kvstore.KeyExpenseCategories] = "   "

			var categories []string
			Expect(store.Load(ctx, kvstore.KeyExpenseCategories, &categories, []string{"Rent"})).To(Succeed())
			Expect(categories).To(Equal([]string{"Rent"}))
		})

		It("returns storage failures", func() {
			repo.SetShouldFail(true)

			var categories []string
			err := store.Load(ctx, kvstore.KeyExpenseCategories, &categories, nil)
			Expect(err).To(MatchError(ContainSubstring("storage unavailable")))
		})
	})

	Describe("Save", func() {
		It("overwrites the previous value", func() {
			Expect(store.Save(ctx, kvstore.KeyExpenseCategories, []string{"Rent"})).To(Succeed())
			Expect(store.Save(ctx, kvstore.KeyExpenseCategories, []string{"Travel"})).To(Succeed())

			Expect(repo.values[kvstore.KeyExpenseCategories]).To(Equal(`["Travel"]`))
		})
	})

	It("knows the fixed storage keys", func() {
		Expect(kvstore.Keys).To(HaveLen(11))
		Expect(kvstore.IsKnownKey("appSettings")).To(BeTrue())
		Expect(kvstore.IsKnownKey("somethingElse")).To(BeFalse())
	})
})
