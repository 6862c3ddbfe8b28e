package user

// CreateInput carries the raw field values for a create request, before
// validation and normalization.
type CreateInput struct {
	Name        string
	Email       string
	Phone       string
	Website     *string
	Gender      string
	GenderOther *string
	Birthdate   string
}

// OptionalString distinguishes an absent field from one explicitly set to
// null or a value, as needed for nullable fields in partial updates.
type OptionalString struct {
	Set   bool
	Value *string
}

// UpdateInput is the sparse field set of a partial update: nil (or unset)
// fields are left untouched on the stored record.
type UpdateInput struct {
	Name        *string
	Email       *string
	Phone       *string
	Website     OptionalString
	Gender      *string
	GenderOther OptionalString
	Birthdate   *string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]User, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

// Create runs every field validator, aggregating one error per field, then
// the gender cross-field rule, and persists the normalized record.
func (s *Service) Create(in CreateInput) (User, error) {
	var ve ValidationErrors
	u := User{}

	if name, err := NormalizeName(in.Name); err != nil {
		ve = append(ve, FieldError{Field: "name", Message: err.Error()})
	} else {
		u.Name = name
	}
	if email, err := NormalizeEmail(in.Email); err != nil {
		ve = append(ve, FieldError{Field: "email", Message: err.Error()})
	} else {
		u.Email = email
	}
	if phone, err := ValidatePhone(in.Phone); err != nil {
		ve = append(ve, FieldError{Field: "phone", Message: err.Error()})
	} else {
		u.Phone = phone
	}
	if in.Website != nil {
		if website, err := ValidateWebsite(*in.Website); err != nil {
			ve = append(ve, FieldError{Field: "website", Message: err.Error()})
		} else {
			u.Website = &website
		}
	}
	if gender, err := ValidateGender(in.Gender); err != nil {
		ve = append(ve, FieldError{Field: "gender", Message: err.Error()})
	} else {
		u.Gender = gender
	}
	if birthdate, err := ValidateBirthdate(in.Birthdate); err != nil {
		ve = append(ve, FieldError{Field: "birthdate", Message: err.Error()})
	} else {
		u.Birthdate = birthdate
	}

	// cross-field rule runs only once every field-level check passed
	if len(ve) == 0 {
		other, err := ResolveGenderOther(u.Gender, in.GenderOther)
		if err != nil {
			ve = append(ve, FieldError{Field: "gender_other", Message: err.Error()})
		} else {
			u.GenderOther = other
		}
	}

	if len(ve) > 0 {
		return User{}, ve
	}
	return s.repo.Create(u)
}

// Update fetches the persisted record, validates only the supplied fields,
// merges them over the existing values, and re-applies the gender
// cross-field rule whenever gender or gender_other appears in the payload.
// The gender used for that rule is the supplied one when present, otherwise
// the stored one.
func (s *Service) Update(id int, in UpdateInput) (User, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}

	var ve ValidationErrors
	u := existing

	if in.Name != nil {
		if name, err := NormalizeName(*in.Name); err != nil {
			ve = append(ve, FieldError{Field: "name", Message: err.Error()})
		} else {
			u.Name = name
		}
	}
	if in.Email != nil {
		if email, err := NormalizeEmail(*in.Email); err != nil {
			ve = append(ve, FieldError{Field: "email", Message: err.Error()})
		} else {
			u.Email = email
		}
	}
	if in.Phone != nil {
		if phone, err := ValidatePhone(*in.Phone); err != nil {
			ve = append(ve, FieldError{Field: "phone", Message: err.Error()})
		} else {
			u.Phone = phone
		}
	}
	if in.Website.Set {
		if in.Website.Value == nil {
			u.Website = nil
		} else if website, err := ValidateWebsite(*in.Website.Value); err != nil {
			ve = append(ve, FieldError{Field: "website", Message: err.Error()})
		} else {
			u.Website = &website
		}
	}
	if in.Gender != nil {
		if gender, err := ValidateGender(*in.Gender); err != nil {
			ve = append(ve, FieldError{Field: "gender", Message: err.Error()})
		} else {
			u.Gender = gender
		}
	}
	if in.Birthdate != nil {
		if birthdate, err := ValidateBirthdate(*in.Birthdate); err != nil {
			ve = append(ve, FieldError{Field: "birthdate", Message: err.Error()})
		} else {
			u.Birthdate = birthdate
		}
	}

	if len(ve) == 0 && (in.Gender != nil || in.GenderOther.Set) {
		rawOther := u.GenderOther
		if in.GenderOther.Set {
			rawOther = in.GenderOther.Value
		}
		other, err := ResolveGenderOther(u.Gender, rawOther)
		if err != nil {
			ve = append(ve, FieldError{Field: "gender_other", Message: err.Error()})
		} else {
			u.GenderOther = other
		}
	}

	if len(ve) > 0 {
		return User{}, ve
	}
	return s.repo.Update(id, u)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
