package sponsorship

import (
	"fmt"
	"strings"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/hebrew"
)

const notProvided = "Not provided"

const taxStatement = "This receipt confirms your donation. No goods or services were provided\n" +
	"in exchange for this contribution. Your donation is tax-deductible to\n" +
	"the fullest extent permitted by law."

// formatCents renders an integer-cents amount as $D.CC.
func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// BuildReceipt produces the plain-text tax receipt. The output is fixed
// field-for-field so a stored sponsorship always reproduces the same
// document; tests pin the exact bytes.
func BuildReceipt(org internal.OrganizationConfig, s *Sponsorship, expenseName string) string {
	var b strings.Builder

	b.WriteString(org.Name + "\n")
	b.WriteString(org.Address + "\n")
	b.WriteString(org.City + "\n")
	b.WriteString("Phone: " + org.Phone + "\n")
	b.WriteString("Email: " + org.Email + "\n")
	b.WriteString("Tax ID: " + org.TaxID + "\n")
	b.WriteString("\n")
	b.WriteString("TAX RECEIPT\n")
	b.WriteString("\n")
	b.WriteString("Transaction ID: " + s.ID + "\n")
	b.WriteString("Date: " + s.CreatedAt.Format("01/02/2006") + "\n")
	b.WriteString("Amount: " + formatCents(s.AmountCents) + "\n")
	b.WriteString("Donor Name: " + s.MemberName + "\n")
	b.WriteString("Donor Email: " + orNotProvided(s.MemberEmail) + "\n")
	b.WriteString("Donor Phone: " + orNotProvided(s.MemberPhone) + "\n")
	b.WriteString("Expense: " + expenseName + "\n")
	b.WriteString(fmt.Sprintf("Month: %s %d\n", hebrew.MonthName(s.Month), s.Year))
	if s.Dedication != "" {
		b.WriteString("Dedication: " + s.Dedication + "\n")
	}
	if s.Message != "" {
		b.WriteString("Message: " + s.Message + "\n")
	}
	b.WriteString("Recurring: " + yesNo(s.Recurring) + "\n")
	b.WriteString("\n")
	b.WriteString(taxStatement + "\n")

	return b.String()
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
