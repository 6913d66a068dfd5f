// Package fixtures holds the canned demo data set: extracted document texts,
// seed users, projects, tasks and document records, and the per-form preset
// question lists. It backs demo mode and tests; nothing here touches storage.
package fixtures

import (
	"time"

	"github.com/preparly/taxassist/models"
)

// DocumentText returns the canned extracted text for a known demo file name.
// The signature matches rag.FixtureFunc so the extractor can be pointed at it
// directly.
func DocumentText(name string) (string, bool) {
	text, ok := documentTexts[name]
	return text, ok
}

// PresetQuestions returns the suggested chat questions for a tax form type,
// falling back to the generic list for unknown forms.
func PresetQuestions(taxForm string) []string {
	if qs, ok := presetQuestions[taxForm]; ok {
		return append([]string(nil), qs...)
	}
	return append([]string(nil), presetQuestions["default"]...)
}

var presetQuestions = map[string][]string{
	"1120": {
		"What are the risks based on prior year financials?",
		"List missing information for filing Form 1120.",
		"Summarize important notes from prior year return.",
		"What tax changes impact this corporate filing this year?",
		"Review prepared forms for completeness.",
	},
	"1065": {
		"What are the key partnership items requiring attention?",
		"List missing information for filing Form 1065.",
		"Summarize partner allocations from prior year.",
		"Check for compliance with partnership agreement.",
		"Review Schedule K-1 calculations.",
	},
	"1040": {
		"What are common deductions this client may have missed?",
		"List missing information for filing Form 1040.",
		"Summarize tax planning opportunities.",
		"Review dependents and filing status.",
		"Check for potential audit flags.",
	},
	"default": {
		"What are the risks based on prior year documents?",
		"List missing information for this filing.",
		"Summarize important notes from prior documents.",
		"Review prepared forms for completeness.",
		"Generate additional questions for the client.",
	},
}

// Users returns the demo accounts. Passwords are plaintext here and hashed
// at seeding time.
func Users() []SeedUser {
	return []SeedUser{
		{User: models.User{ID: "jeff", Email: "jeff@preparly.dev", Name: "Jeff", Role: models.RolePreparer}, Password: "password"},
		{User: models.User{ID: "hanna", Email: "hanna@preparly.dev", Name: "Hanna", Role: models.RoleReviewer}, Password: "password"},
	}
}

// SeedUser pairs a demo user with its login password.
type SeedUser struct {
	models.User
	Password string
}

func Projects() []models.Project {
	return []models.Project{
		{
			ID:        "proj-001",
			Name:      "Acme Corp 2024 Tax Filing",
			Clients:   []string{"Acme Corp"},
			Services:  []string{"Corporate Tax Filing"},
			Documents: []string{"doc-001", "doc-002", "doc-003"},
			Tasks:     []string{"task-001", "task-002"},
		},
		{
			ID:        "proj-002",
			Name:      "Beta LLC 2024 Partnership Returns",
			Clients:   []string{"Beta LLC"},
			Services:  []string{"Partnership Tax Returns"},
			Documents: []string{"doc-004"},
			Tasks:     []string{"task-003", "task-004"},
		},
		{
			ID:       "proj-003",
			Name:     "Multi-Client Corporate Tax Services",
			Clients:  []string{"Gamma Inc", "Delta Corp", "Epsilon Ltd"},
			Services: []string{"Corporate Tax Filing", "Tax Planning"},
			Tasks:    []string{"task-005", "task-006"},
		},
	}
}

func Tasks() []models.Task {
	return []models.Task{
		{
			ID:          "task-001",
			ProjectID:   "proj-001",
			AssignedTo:  "jeff",
			Client:      "Acme Corp",
			TaxForm:     "1120",
			Documents:   []string{"doc-001", "doc-002"},
			Status:      models.TaskStatusInProgress,
			Description: "Complete the corporate tax return for Acme Corp for the 2024 tax year.",
			DueDate:     "2024-04-15",
		},
		{
			ID:          "task-002",
			ProjectID:   "proj-001",
			AssignedTo:  "hanna",
			Client:      "Acme Corp",
			TaxForm:     "1120",
			Documents:   []string{"doc-001", "doc-002", "doc-003"},
			Status:      models.TaskStatusNotStarted,
			Description: "Review the prepared corporate tax return for Acme Corp.",
			DueDate:     "2024-04-20",
		},
		{
			ID:          "task-003",
			ProjectID:   "proj-002",
			AssignedTo:  "jeff",
			Client:      "Beta LLC",
			TaxForm:     "1065",
			Documents:   []string{"doc-004"},
			Status:      models.TaskStatusInProgress,
			Description: "Complete the partnership tax return for Beta LLC for the 2024 tax year.",
			DueDate:     "2024-04-15",
		},
		{
			ID:          "task-004",
			ProjectID:   "proj-002",
			AssignedTo:  "hanna",
			Client:      "Beta LLC",
			TaxForm:     "1065",
			Documents:   []string{"doc-004"},
			Status:      models.TaskStatusNotStarted,
			Description: "Review the prepared partnership tax return for Beta LLC.",
			DueDate:     "2024-04-20",
		},
		{
			ID:          "task-005",
			ProjectID:   "proj-003",
			AssignedTo:  "jeff",
			Client:      "Gamma Inc",
			TaxForm:     "1120",
			Status:      models.TaskStatusNotStarted,
			Description: "Complete the corporate tax filings for Gamma Inc.",
			DueDate:     "2024-05-15",
		},
		{
			ID:          "task-006",
			ProjectID:   "proj-003",
			AssignedTo:  "jeff",
			Client:      "Delta Corp",
			TaxForm:     "1120",
			Status:      models.TaskStatusNotStarted,
			Description: "Complete the corporate tax filings for Delta Corp.",
			DueDate:     "2024-05-15",
		},
	}
}

func Documents() []models.Document {
	return []models.Document{
		{
			ID:           "doc-001",
			FileName:     "prior_year_return.pdf",
			FileType:     "pdf",
			ProjectID:    "proj-001",
			LastModified: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:           "doc-002",
			FileName:     "financial_statement.xlsx",
			FileType:     "xlsx",
			ProjectID:    "proj-001",
			LastModified: time.Date(2024, 3, 16, 14, 45, 0, 0, time.UTC),
		},
		{
			ID:           "doc-003",
			FileName:     "client_responses.docx",
			FileType:     "docx",
			ProjectID:    "proj-001",
			LastModified: time.Date(2024, 3, 20, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:           "doc-004",
			FileName:     "prior_year_return.pdf",
			FileType:     "pdf",
			ProjectID:    "proj-002",
			LastModified: time.Date(2024, 3, 18, 11, 20, 0, 0, time.UTC),
		},
	}
}

var documentTexts = map[string]string{
	"prior_year_return.pdf": `
ACME CORPORATION - FORM 1120
Tax Year 2023
EIN: 12-3456789

INCOME:
Total Revenue: $5,435,000
Cost of Goods: $2,150,000
Gross Profit: $3,285,000
Operating Expenses: $2,100,000
Net Income: $1,185,000

TAX CALCULATION:
Taxable Income: $1,100,000
Federal Tax Rate: 21%
Federal Tax: $231,000

NOTES:
- Depreciation method for new equipment to be reviewed
- Potential R&D credit application for software development
- Missing documentation for charitable contributions
- Foreign income from Canadian subsidiary requires additional forms
`,
	"financial_statement.xlsx": `
ACME CORPORATION
Balance Sheet as of Dec 31, 2023

ASSETS:
Current Assets: $2,750,000
Fixed Assets: $4,200,000
Total Assets: $6,950,000

LIABILITIES:
Current Liabilities: $1,250,000
Long-term Debt: $2,340,000
Total Liabilities: $3,590,000

EQUITY:
Common Stock: $1,000,000
Retained Earnings: $2,360,000
Total Equity: $3,360,000

INCOME STATEMENT:
Revenue: $5,435,000
Expenses: $4,250,000
Net Income: $1,185,000

CASH FLOW:
Operating Activities: $1,230,000
Investing Activities: ($850,000)
Financing Activities: ($300,000)
Net Change in Cash: $80,000
`,
	"SOW.docx": `
STATEMENT OF WORK
Client: ACME Corporation
Tax Year: 2024
Services: Corporate Tax Filing (Form 1120)

SCOPE:
- Preparation of Form 1120 and all required schedules
- Tax planning advisory services
- Quarterly estimated tax payment calculations
- State tax returns for CA, NY, TX

TIMELINE:
- Initial documentation due: February 28, 2024
- Draft return review: March 15, 2024
- Final filing deadline: April 15, 2024

FEES:
Base preparation fee: $12,500
Additional services billed at $250/hour

NOTES:
- Client has expanded operations to Canada requiring international tax considerations
- New manufacturing facility may qualify for additional deductions
- CEO compensation package requires special documentation
`,
	"client_responses.docx": `
ACME CORPORATION
Responses to Tax Questionnaire

1. Has the company structure changed? YES
   Details: Added Canadian subsidiary in June 2023

2. Any new major assets purchased? YES
   Details: Manufacturing equipment ($1.2M) in August 2023

3. Any changes to officer compensation? YES
   Details: New CEO package includes stock options

4. Any new debt or financing? NO

5. Any legal settlements or lawsuits? NO

6. Any foreign operations or accounts? YES
   Details: Canadian operations began June 2023

7. Any tax credits being claimed? UNSURE
   Details: May qualify for R&D credits for software development

MISSING ITEMS:
- Detailed breakdown of R&D expenses
- Officer compensation documentation
- Final depreciation schedules
- Foreign income statements
`,
	"form_1120_template.docx": `
FORM 1120 - U.S. Corporation Income Tax Return
Tax Year: 2024

Part I: Income
1. Gross receipts or sales: _______
2. Returns and allowances: _______
3. Cost of goods sold: _______
4. Gross profit (subtract line 3 from line 1c): _______
5. Dividends: _______
6. Interest: _______
7. Gross rents: _______
8. Gross royalties: _______
9. Capital gain net income: _______
10. Net gain or (loss) from Form 4797: _______

Part II: Deductions
12. Compensation of officers: _______
13. Salaries and wages: _______
14. Repairs and maintenance: _______
15. Bad debts: _______
16. Rents: _______
17. Taxes and licenses: _______
18. Interest: _______
19. Charitable contributions: _______
20. Depreciation: _______
21. Depletion: _______
22. Advertising: _______
23. Pension, profit-sharing plans: _______

Part III: Tax Computation
31. Taxable income: _______
32. Total tax: _______
`,
	"form_1065_template.docx": `
FORM 1065 - U.S. Return of Partnership Income
Tax Year: 2024

Part I: Income
1. Gross receipts or sales: _______
2. Returns and allowances: _______
3. Cost of goods sold: _______
4. Gross profit (subtract line 3 from line 1c): _______
5. Ordinary income (loss) from other partnerships: _______
6. Net farm profit (loss): _______
7. Net gain (loss) from Form 4797: _______
8. Other income (loss): _______

Part II: Deductions
9. Salaries and wages: _______
10. Guaranteed payments to partners: _______
11. Repairs and maintenance: _______
12. Bad debts: _______
13. Rent: _______
14. Taxes and licenses: _______
15. Interest: _______
16. Depreciation: _______
17. Depletion: _______
18. Retirement plans: _______
19. Employee benefit programs: _______
20. Other deductions: _______

Schedule K: Partners' Distributive Share Items
1. Ordinary business income (loss): _______
2. Net rental real estate income (loss): _______
3. Other net rental income (loss): _______
4. Guaranteed payments: _______
5. Interest income: _______
6. Dividends: _______
7. Royalties: _______
8. Net short-term capital gain (loss): _______
9. Net long-term capital gain (loss): _______
`,
}
