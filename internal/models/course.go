package models

import "time"

type CourseStatus string

const (
	CourseDraft       CourseStatus = "DRAFT"
	CourseUnderReview CourseStatus = "UNDER_REVIEW"
	CoursePublished   CourseStatus = "PUBLISHED"
	CourseArchived    CourseStatus = "ARCHIVED"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
)

// Instructor links an identity-provider user to the courses they own.
type Instructor struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"size:255;uniqueIndex;not null"`
	IsVerified bool   `json:"is_verified"`
}

func (Instructor) TableName() string {
	return "instructors"
}

type Course struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	InstructorID uint         `json:"instructor_id" gorm:"not null;index"`
	Title        string       `json:"title" gorm:"size:200;not null"`
	Status       CourseStatus `json:"status" gorm:"size:20;not null"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

type Section struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	Title    string `json:"title" gorm:"size:200;not null"`
	Course   Course `json:"course" gorm:"foreignKey:CourseID"`
}

func (Section) TableName() string {
	return "sections"
}

type Enrollment struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	CourseID  uint             `json:"course_id" gorm:"not null;index"`
	StudentID string           `json:"student_id" gorm:"size:255;not null;index"`
	Status    EnrollmentStatus `json:"status" gorm:"size:20;not null"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
