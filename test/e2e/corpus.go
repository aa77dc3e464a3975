// This file defines the seeded corpus: documents with known contents and the
// outcome each one must produce.
package e2e

import (
	"fmt"

	"github.com/hyperjump/bunrui/internal/models"
)

// CorpusDocument is one seeded file. The extension on Name decides the fixture
// format; Category is only meaningful when Status is success.
type CorpusDocument struct {
	Name     string
	Content  string
	Status   models.Status
	Category models.Category
}

// Corpus holds the documents a whole-pipeline test seeds into a directory.
type Corpus struct {
	Documents []CorpusDocument
}

// BuildCorpus returns curated documents for every category and outcome path
// plus generated filler so batches run at a realistic size.
func BuildCorpus() *Corpus {
	docs := []CorpusDocument{
		{
			Name:     "q1-invoice.txt",
			Content:  "Invoice 2024-018 for consulting services. The total amount due is 4,200. Payment is expected within thirty days; a receipt follows once the payment clears. Budget impact: a minor cost increase.",
			Status:   models.StatusSuccess,
			Category: models.CategoryFinancial,
		},
		{
			Name:     "vendor-ledger.docx",
			Content:  "Payment schedule for the vendor. The invoice total includes the unit price, shipping cost, and tax amount. A receipt is issued on settlement.",
			Status:   models.StatusSuccess,
			Category: models.CategoryFinancial,
		},
		{
			Name:     "service-contract.txt",
			Content:  "This agreement sets the terms of service between the parties. Each clause limits liability for either side. Legal counsel reviewed the policy and the copyright notice.",
			Status:   models.StatusSuccess,
			Category: models.CategoryLegal,
		},
		{
			Name:     "nda.docx",
			Content:  "The mutual agreement includes a confidentiality clause. A breach of these terms creates liability under the governing policy.",
			Status:   models.StatusSuccess,
			Category: models.CategoryLegal,
		},
		{
			Name:     "candidate-notes.txt",
			Content:  "The interview panel reviewed the resume and the cv of every candidate. Hiring depends on payroll headroom, and each new employee picks benefits during onboarding.",
			Status:   models.StatusSuccess,
			Category: models.CategoryHR,
		},
		{
			Name:     "onboarding.docx",
			Content:  "Every new employee meets hr on the first day. Payroll setup and benefits enrollment happen before the first interview round for internal transfers.",
			Status:   models.StatusSuccess,
			Category: models.CategoryHR,
		},
		{
			Name:     "api-reference.txt",
			Content:  "This technical guide covers the api surface. The specification section of the documentation lists every software interface; consult the manual for examples.",
			Status:   models.StatusSuccess,
			Category: models.CategoryTechnical,
		},
		{
			Name:     "install-manual.docx",
			Content:  "The manual explains software installation. The full documentation and the technical specification ship together with the api client.",
			Status:   models.StatusSuccess,
			Category: models.CategoryTechnical,
		},
		{
			Name:     "meeting-notes.txt",
			Content:  "Team sync on Tuesday. We walked through the roadmap and parked two questions for next week. Nothing else to add.",
			Status:   models.StatusSuccess,
			Category: models.CategoryGeneral,
		},
		{
			Name:     "empty.txt",
			Content:  "",
			Status:   models.StatusSuccess,
			Category: models.CategoryGeneral,
		},
		{
			Name:   "archive.xyz",
			Status: models.StatusSkipped,
		},
		{
			Name:   "broken.pdf",
			Status: models.StatusFailed,
		},
	}
	docs = append(docs, buildFillerDocuments(10)...)
	return &Corpus{Documents: docs}
}

// buildFillerDocuments generates perCategory documents for each keyword
// category, alternating extensions. File names reuse the category word, which
// only reinforces the category the content already carries.
func buildFillerDocuments(perCategory int) []CorpusDocument {
	templates := map[models.Category]string{
		models.CategoryFinancial: "Ledger entry %d. The invoice lists the amount, the payment due, and the total cost against the budget.",
		models.CategoryLegal:     "Case file %d. The agreement and its clause set the terms, the policy, and the liability of each party.",
		models.CategoryHR:        "Staffing memo %d. The interview schedule, the resume pool, and the payroll and benefits of each employee.",
		models.CategoryTechnical: "Build note %d. The manual and the specification describe the api and the software documentation.",
	}
	exts := []string{".txt", ".docx"}
	var docs []CorpusDocument
	for _, cat := range models.CategoryPriority() {
		tmpl, ok := templates[cat]
		if !ok {
			continue
		}
		for i := 0; i < perCategory; i++ {
			docs = append(docs, CorpusDocument{
				Name:     fmt.Sprintf("%s-%03d%s", cat, i, exts[i%len(exts)]),
				Content:  fmt.Sprintf(tmpl, i),
				Status:   models.StatusSuccess,
				Category: cat,
			})
		}
	}
	return docs
}

// Find returns the corpus document with the given file name, or nil.
func (c *Corpus) Find(name string) *CorpusDocument {
	for i := range c.Documents {
		if c.Documents[i].Name == name {
			return &c.Documents[i]
		}
	}
	return nil
}

// CountByStatus returns how many documents expect each outcome status.
func (c *Corpus) CountByStatus() map[models.Status]int {
	out := make(map[models.Status]int)
	for _, d := range c.Documents {
		out[d.Status]++
	}
	return out
}

// SuccessByCategory returns expected category counts across successful documents.
func (c *Corpus) SuccessByCategory() map[models.Category]int {
	out := make(map[models.Category]int)
	for _, d := range c.Documents {
		if d.Status == models.StatusSuccess {
			out[d.Category]++
		}
	}
	return out
}
