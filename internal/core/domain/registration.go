package domain

// RegistrationFields is what a visitor submits to create an account.
type RegistrationFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Lawyer is a directory entry shown on the Find Lawyers page.
type Lawyer struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Location           string   `json:"location,omitempty"`
	Bio                string   `json:"bio,omitempty"`
	ConsultationFee    int      `json:"consultationFee,omitempty"`
	YearsOfExperience  int      `json:"yearsOfExperience,omitempty"`
	Specializations    []string `json:"specializations,omitempty"`
	Languages          []string `json:"languages,omitempty"`
	VerificationStatus string   `json:"verificationStatus,omitempty"`
}

// Profile is the backend's view of the logged-in account.
type Profile struct {
	Identity           Identity
	Location           string
	Bio                string
	VerificationStatus string
}

// ProfileUpdate is what an account may change on its own profile. Email and
// role are fixed once registered.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}
