package payment_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beledshul/sponsorship/internal/payment"
)

var _ = Describe("Payment Handler", func() {
	var handler *payment.Handler

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		now := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
		service := payment.NewServiceWithClock(logger, func() time.Time { return now })
		handler = payment.NewHandler(service)
	})

	It("should answer a valid precheck", func() {
		body := `{"card_number":"4111111111111111","expiry":"12/25","cvv":"123"}`
		req := httptest.NewRequest(http.MethodPost, "/payment/precheck", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Precheck(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var resp payment.PrecheckResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Valid).To(BeTrue())
		Expect(resp.Brand).To(Equal(payment.BrandVisa))
	})

	It("should report failing fields without rejecting the request", func() {
		body := `{"card_number":"999","expiry":"13/20","cvv":"ab"}`
		req := httptest.NewRequest(http.MethodPost, "/payment/precheck", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Precheck(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var resp payment.PrecheckResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Valid).To(BeFalse())
		Expect(resp.Errors).To(HaveLen(3))
	})

	It("should return 400 for malformed JSON", func() {
		req := httptest.NewRequest(http.MethodPost, "/payment/precheck", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.Precheck(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
