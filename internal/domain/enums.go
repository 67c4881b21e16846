package domain

// TransactionType is the direction of a cash movement.
type TransactionType string

const (
	CashIn  TransactionType = "CASH_IN"
	CashOut TransactionType = "CASH_OUT"
)

var transactionTypeLabels = map[TransactionType]string{
	CashIn:  "Thu (Cash In)",
	CashOut: "Chi (Cash Out)",
}

func (t TransactionType) Label() string { return labelOf(transactionTypeLabels, t) }
func (t TransactionType) IsValid() bool { return isKnown(transactionTypeLabels, t) }

func (t *TransactionType) UnmarshalText(b []byte) error {
	*t = codeOf(transactionTypeLabels, string(b))
	return nil
}

// ExpenseType classifies a cash-out for cost-structure reporting.
type ExpenseType string

const (
	ExpenseFixed    ExpenseType = "FIXED"
	ExpenseVariable ExpenseType = "VARIABLE"
)

var expenseTypeLabels = map[ExpenseType]string{
	ExpenseFixed:    "Chi phí cố định",
	ExpenseVariable: "Chi phí biến đổi",
}

func (t ExpenseType) Label() string { return labelOf(expenseTypeLabels, t) }
func (t ExpenseType) IsValid() bool { return isKnown(expenseTypeLabels, t) }

func (t *ExpenseType) UnmarshalText(b []byte) error {
	*t = codeOf(expenseTypeLabels, string(b))
	return nil
}

type BusinessUnit string

const (
	UnitTTGarment       BusinessUnit = "TT_GARMENT"
	UnitAFC             BusinessUnit = "AFC"
	UnitOtherSubsidiary BusinessUnit = "OTHER_SUBSIDIARY"
	UnitTTGGroup        BusinessUnit = "TTG_GROUP"
)

var businessUnitLabels = map[BusinessUnit]string{
	UnitTTGarment:       "TT Garment",
	UnitAFC:             "AFC",
	UnitOtherSubsidiary: "Công ty con khác",
	UnitTTGGroup:        "TTG Group",
}

func (u BusinessUnit) Label() string { return labelOf(businessUnitLabels, u) }
func (u BusinessUnit) IsValid() bool { return isKnown(businessUnitLabels, u) }

func (u *BusinessUnit) UnmarshalText(b []byte) error {
	*u = codeOf(businessUnitLabels, string(b))
	return nil
}

type Department string

const (
	DeptFinance    Department = "FINANCE"
	DeptSales      Department = "SALES"
	DeptHR         Department = "HR"
	DeptProduction Department = "PRODUCTION"
	DeptLogistics  Department = "LOGISTICS"
	DeptMarketing  Department = "MARKETING"
	DeptManagement Department = "MANAGEMENT"
)

var departmentLabels = map[Department]string{
	DeptFinance:    "Tài chính",
	DeptSales:      "Kinh doanh",
	DeptHR:         "Nhân sự",
	DeptProduction: "Sản xuất",
	DeptLogistics:  "Logistics",
	DeptMarketing:  "Marketing",
	DeptManagement: "Ban giám đốc",
}

func (d Department) Label() string { return labelOf(departmentLabels, d) }
func (d Department) IsValid() bool { return isKnown(departmentLabels, d) }

func (d *Department) UnmarshalText(b []byte) error {
	*d = codeOf(departmentLabels, string(b))
	return nil
}

// CashInSource is the category of a cash-in.
type CashInSource string

const (
	SourceSales    CashInSource = "SALES"
	SourceProject  CashInSource = "PROJECT"
	SourceCustomer CashInSource = "CUSTOMER"
	SourceOther    CashInSource = "OTHER"
)

var cashInSourceLabels = map[CashInSource]string{
	SourceSales:    "Bán hàng",
	SourceProject:  "Dự án",
	SourceCustomer: "Khách hàng",
	SourceOther:    "Thu khác",
}

func (s CashInSource) Label() string { return labelOf(cashInSourceLabels, s) }
func (s CashInSource) IsValid() bool { return isKnown(cashInSourceLabels, s) }

func (s *CashInSource) UnmarshalText(b []byte) error {
	*s = codeOf(cashInSourceLabels, string(b))
	return nil
}

// ExpenseGroup is the category of a cash-out.
type ExpenseGroup string

const (
	GroupSalary      ExpenseGroup = "SALARY"
	GroupFabric      ExpenseGroup = "FABRIC"
	GroupOutsourcing ExpenseGroup = "OUTSOURCING"
	GroupLogistics   ExpenseGroup = "LOGISTICS"
	GroupMarketing   ExpenseGroup = "MARKETING"
	GroupOffice      ExpenseGroup = "OFFICE"
	GroupMaintenance ExpenseGroup = "MAINTENANCE"
	GroupOther       ExpenseGroup = "OTHER"
)

var expenseGroupLabels = map[ExpenseGroup]string{
	GroupSalary:      "Lương",
	GroupFabric:      "Vải & phụ liệu",
	GroupOutsourcing: "Gia công ngoài",
	GroupLogistics:   "Logistics",
	GroupMarketing:   "Marketing",
	GroupOffice:      "Văn phòng",
	GroupMaintenance: "Máy móc – bảo trì",
	GroupOther:       "Chi khác",
}

func (g ExpenseGroup) Label() string { return labelOf(expenseGroupLabels, g) }
func (g ExpenseGroup) IsValid() bool { return isKnown(expenseGroupLabels, g) }

func (g *ExpenseGroup) UnmarshalText(b []byte) error {
	*g = codeOf(expenseGroupLabels, string(b))
	return nil
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentOther    PaymentMethod = "OTHER"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentCash:     "Tiền mặt",
	PaymentTransfer: "Chuyển khoản",
	PaymentOther:    "Khác",
}

func (p PaymentMethod) Label() string { return labelOf(paymentMethodLabels, p) }
func (p PaymentMethod) IsValid() bool { return isKnown(paymentMethodLabels, p) }

func (p *PaymentMethod) UnmarshalText(b []byte) error {
	*p = codeOf(paymentMethodLabels, string(b))
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "Thấp",
	PriorityMedium: "Trung bình",
	PriorityHigh:   "Cao",
}

func (p Priority) Label() string { return labelOf(priorityLabels, p) }
func (p Priority) IsValid() bool { return isKnown(priorityLabels, p) }

func (p *Priority) UnmarshalText(b []byte) error {
	*p = codeOf(priorityLabels, string(b))
	return nil
}

type FlowWarning string

const (
	FlowNegative FlowWarning = "NEGATIVE"
	FlowNormal   FlowWarning = "NORMAL"
)

var flowWarningLabels = map[FlowWarning]string{
	FlowNegative: "Âm",
	FlowNormal:   "Bình thường",
}

func (f FlowWarning) Label() string { return labelOf(flowWarningLabels, f) }
func (f FlowWarning) IsValid() bool { return isKnown(flowWarningLabels, f) }

func (f *FlowWarning) UnmarshalText(b []byte) error {
	*f = codeOf(flowWarningLabels, string(b))
	return nil
}

func labelOf[T ~string](labels map[T]string, v T) string {
	if l, ok := labels[v]; ok {
		return l
	}
	return string(v)
}

func isKnown[T ~string](labels map[T]string, v T) bool {
	_, ok := labels[v]
	return ok
}

// codeOf accepts either a code or its display label. Unknown values are kept
// verbatim so that imported state round-trips unchanged.
func codeOf[T ~string](labels map[T]string, s string) T {
	if _, ok := labels[T(s)]; ok {
		return T(s)
	}
	for code, label := range labels {
		if label == s {
			return code
		}
	}
	return T(s)
}
