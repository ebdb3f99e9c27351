package dto

import "time"

type ArmedReminder struct {
	TaskID   uint      `json:"task_id"`
	RemindAt time.Time `json:"remind_at"`
}

type ArmedRemindersResponse struct {
	Count     int             `json:"count"`
	Reminders []ArmedReminder `json:"reminders"`
}
