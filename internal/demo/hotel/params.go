package hotel

import "github.com/aipms-go/ontology/pkg/ontology"

// WalkinCheckinParams is the typed parameter object for walkin_checkin.
type WalkinCheckinParams struct {
	RoomNumber       string
	GuestName        string
	GuestPhone       string
	ExpectedCheckOut string
}

// WalkinCheckinParamsModel implements ontology.ParamsModel for
// WalkinCheckinParams.
type WalkinCheckinParamsModel struct{}

func (WalkinCheckinParamsModel) Parse(raw map[string]interface{}) (interface{}, []ontology.FieldError) {
	var errs []ontology.FieldError
	p := WalkinCheckinParams{
		RoomNumber:       stringField(raw, "room_number"),
		GuestName:        stringField(raw, "guest_name"),
		GuestPhone:       stringField(raw, "guest_phone"),
		ExpectedCheckOut: stringField(raw, "expected_check_out"),
	}
	if p.RoomNumber == "" {
		errs = append(errs, ontology.FieldError{Field: "room_number", Message: "required"})
	}
	if p.GuestName == "" {
		errs = append(errs, ontology.FieldError{Field: "guest_name", Message: "required"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

// UpdateGuestParams is the typed parameter object for update_guest.
type UpdateGuestParams struct {
	GuestID string
	Phone   string
}

// UpdateGuestParamsModel implements ontology.ParamsModel for
// UpdateGuestParams.
type UpdateGuestParamsModel struct{}

func (UpdateGuestParamsModel) Parse(raw map[string]interface{}) (interface{}, []ontology.FieldError) {
	p := UpdateGuestParams{
		GuestID: stringField(raw, "guest_id"),
		Phone:   stringField(raw, "phone"),
	}
	if p.GuestID == "" {
		return nil, []ontology.FieldError{{Field: "guest_id", Message: "required"}}
	}
	return p, nil
}

func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
