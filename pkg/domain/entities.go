// Package domain defines the persistent entities, derived-field arithmetic,
// and error taxonomy shared by the meal-tracking core.
package domain

// Role identifies the two account types recognised by the system.
type Role string

// Supported account roles.
const (
	// RoleSchoolAdmin submits daily meal data for exactly one school.
	RoleSchoolAdmin Role = "school_admin"
	// RoleGovtOfficer oversees the schools of one district.
	RoleGovtOfficer Role = "govt_officer"
)

// Entity names used in error reporting.
const (
	EntitySchool      = "school"
	EntityUser        = "user"
	EntityAttendance  = "attendance"
	EntityInventory   = "inventory item"
	EntityReport      = "report"
	EntityActivityLog = "activity log"
)

// LowStockThreshold is the percent-full boundary below which an inventory
// item counts as a stock alert.
const LowStockThreshold = 20

// DefaultMenuOptions is assigned to schools created without an explicit menu.
var DefaultMenuOptions = []string{"Rice & Dal", "Roti & Seasonal Sabzi", "Khichdi", "Kheer & Puri"}

// School is the owning entity for attendance, inventory, reports, and
// activity records. TotalEnrolled drives all participation-percentage math
// and must never be negative.
type School struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	District      string   `json:"district"`
	Block         string   `json:"block"`
	TotalEnrolled int      `json:"totalEnrolled"`
	PrincipalID   *string  `json:"principalId"`
	Address       string   `json:"address"`
	ContactPhone  string   `json:"contactPhone"`
	MenuOptions   []string `json:"menuOptions"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// User is an account. Password holds the bcrypt hash and is stripped by the
// repository on every read path that does not explicitly ask for it.
// SchoolID is set only for school_admin accounts, District only for
// govt_officer accounts.
type User struct {
	ID          string  `json:"_id"`
	Username    string  `json:"username"`
	Password    string  `json:"password,omitempty"`
	FullName    string  `json:"fullName"`
	Role        Role    `json:"role"`
	Designation string  `json:"designation"`
	SchoolID    *string `json:"schoolId"`
	District    *string `json:"district"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Attendance is one school-day meal record. DateStr is derived from Date in
// UTC at submission time and, together with SchoolID, forms the natural key:
// at most one record may exist per (SchoolID, DateStr). Verified transitions
// false to true exactly once and never reverts.
type Attendance struct {
	ID              string  `json:"_id"`
	SchoolID        string  `json:"schoolId"`
	Date            string  `json:"date"`
	DateStr         string  `json:"dateStr"`
	TotalEnrolled   int     `json:"totalEnrolled"`
	StudentsPresent int     `json:"studentsPresent"`
	MenuServed      string  `json:"menuServed"`
	SubmittedBy     string  `json:"submittedBy"`
	Verified        bool    `json:"verified"`
	VerifiedBy      *string `json:"verifiedBy"`
	VerifiedAt      *string `json:"verifiedAt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// Inventory is a stock line item. Quantity is clamped to MaxCapacity on every
// stock addition. PercentFull and IsLowStock are derived, never persisted.
type Inventory struct {
	ID          string  `json:"_id"`
	SchoolID    string  `json:"schoolId"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Quantity    float64 `json:"quantity"`
	MaxCapacity float64 `json:"maxCapacity"`
	Color       string  `json:"color"`
	LastUpdated string  `json:"lastUpdated"`
	UpdatedBy   *string `json:"updatedBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// PercentFull recomputes the fill percentage from the stored fields. A zero
// or negative capacity yields 0 rather than a division failure.
func (i Inventory) PercentFull() int {
	if i.MaxCapacity <= 0 {
		return 0
	}
	return RoundHalfUp(i.Quantity / i.MaxCapacity * 100)
}

// IsLowStock reports whether the item is below the low-stock threshold.
func (i Inventory) IsLowStock() bool {
	return i.PercentFull() < LowStockThreshold
}

// Report is the persisted metadata of one generated monthly artifact. At most
// one record exists per (SchoolID, Month, Year); regeneration overwrites in
// place.
type Report struct {
	ID               string `json:"_id"`
	SchoolID         string `json:"schoolId"`
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	FileName         string `json:"fileName"`
	FilePath         string `json:"filePath"`
	GeneratedBy      string `json:"generatedBy"`
	TotalMealsServed int    `json:"totalMealsServed"`
	AvgAttendance    int    `json:"avgAttendance"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// ActivityLog is an append-only audit entry emitted by every successful
// mutation. Entries are never updated; retrieval is most-recent-first.
type ActivityLog struct {
	ID          string  `json:"_id"`
	SchoolID    *string `json:"schoolId"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	UserID      string  `json:"userId"`
	Icon        string  `json:"icon"`
	IconColor   string  `json:"iconColor"`
	CreatedAt   string  `json:"createdAt"`
}

// RoundHalfUp rounds to the nearest integer with halves rounding up, the
// arithmetic used by every percentage and average in the system. Inputs are
// never negative.
func RoundHalfUp(x float64) int {
	n := x + 0.5
	f := int(n)
	if float64(f) > n {
		f--
	}
	return f
}
