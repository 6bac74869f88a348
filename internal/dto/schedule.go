package dto

// CreateScheduleEntryRequest is the payload for placing a student into
// a timetable cell.
type CreateScheduleEntryRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Subject   string `json:"subject" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required"`
	TimeSlot  string `json:"time_slot" validate:"required"`
}

// UpdateTimeSlotsRequest replaces the teacher's slot list.
type UpdateTimeSlotsRequest struct {
	TimeSlots []string `json:"time_slots" validate:"required,min=1,dive,required"`
}
