package sponsorship_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/sponsorship"
)

var testOrg = internal.OrganizationConfig{
	Name:    "CONG. TIFERES YECHEZKEL OF BELED",
	Address: "1379 58th Street",
	City:    "Brooklyn, NY 11219",
	Phone:   "(718) 436-8334",
	Email:   "info@beledsynagogue.org",
	TaxID:   "11-3090728",
}

var _ = Describe("BuildReceipt", func() {
	var entry *sponsorship.Sponsorship

	BeforeEach(func() {
		entry = &sponsorship.Sponsorship{
			ID:          "tx-123",
			ExpenseID:   "exp-1",
			Month:       0,
			Year:        5785,
			AmountCents: 15000,
			MemberName:  "Dovid Klein",
			MemberEmail: "dovid@example.com",
			MemberPhone: "(347) 555-0101",
			CreatedAt:   time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC),
		}
	})

	It("should produce the exact receipt document", func() {
		expected := "CONG. TIFERES YECHEZKEL OF BELED\n" +
			"1379 58th Street\n" +
			"Brooklyn, NY 11219\n" +
			"Phone: (718) 436-8334\n" +
			"Email: info@beledsynagogue.org\n" +
			"Tax ID: 11-3090728\n" +
			"\n" +
			"TAX RECEIPT\n" +
			"\n" +
			"Transaction ID: tx-123\n" +
			"Date: 10/03/2024\n" +
			"Amount: $150.00\n" +
			"Donor Name: Dovid Klein\n" +
			"Donor Email: dovid@example.com\n" +
			"Donor Phone: (347) 555-0101\n" +
			"Expense: Utilities\n" +
			"Month: Tishrei 5785\n" +
			"Recurring: No\n" +
			"\n" +
			"This receipt confirms your donation. No goods or services were provided\n" +
			"in exchange for this contribution. Your donation is tax-deductible to\n" +
			"the fullest extent permitted by law.\n"

		Expect(sponsorship.BuildReceipt(testOrg, entry, "Utilities")).To(Equal(expected))
	})

	It("should substitute Not provided for missing contact fields", func() {
		entry.MemberEmail = ""
		entry.MemberPhone = ""
		receipt := sponsorship.BuildReceipt(testOrg, entry, "Utilities")
		Expect(receipt).To(ContainSubstring("Donor Email: Not provided\n"))
		Expect(receipt).To(ContainSubstring("Donor Phone: Not provided\n"))
	})

	It("should include dedication and message lines only when present", func() {
		entry.Dedication = "In memory of R' Yechezkel"
		entry.Message = "Thank you"
		receipt := sponsorship.BuildReceipt(testOrg, entry, "Utilities")
		Expect(receipt).To(ContainSubstring("Dedication: In memory of R' Yechezkel\n"))
		Expect(receipt).To(ContainSubstring("Message: Thank you\n"))

		entry.Dedication = ""
		entry.Message = ""
		receipt = sponsorship.BuildReceipt(testOrg, entry, "Utilities")
		Expect(receipt).NotTo(ContainSubstring("Dedication:"))
		Expect(receipt).NotTo(ContainSubstring("Message:"))
	})

	It("should mark recurring pledges", func() {
		entry.Recurring = true
		Expect(sponsorship.BuildReceipt(testOrg, entry, "Utilities")).
			To(ContainSubstring("Recurring: Yes\n"))
	})

	It("should format sub-dollar cents with two digits", func() {
		entry.AmountCents = 12305
		Expect(sponsorship.BuildReceipt(testOrg, entry, "Utilities")).
			To(ContainSubstring("Amount: $123.05\n"))
	})
})

var _ = Describe("RenderReceiptPDF", func() {
	It("should produce a PDF document", func() {
		entry := &sponsorship.Sponsorship{
			ID:          "tx-123",
			AmountCents: 15000,
			MemberName:  "Dovid Klein",
			CreatedAt:   time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC),
		}
		data, err := sponsorship.RenderReceiptPDF(testOrg, entry, "Utilities")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
		Expect(string(data[:5])).To(Equal("%PDF-"))
	})
})
