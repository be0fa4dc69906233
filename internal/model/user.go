package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// User is a teacher account. Students are separate records owned by a teacher.
type User struct {
	UUIDBase
	Email     string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string   `gorm:"size:100;not null" json:"-"`
	FirstName string   `gorm:"size:100;not null" json:"firstName"`
	LastName  string   `gorm:"size:100;not null" json:"lastName"`
	Role      UserRole `gorm:"size:20;default:'teacher'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type StudentAccount struct {
	UUIDBase
	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Username  string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password  string `gorm:"size:100;not null" json:"-"`
	TeacherID string `gorm:"type:varchar(36);index;not null" json:"teacherId"`
}

func (StudentAccount) TableName() string {
	return "students"
}

func (s *StudentAccount) FullName() string {
	return s.FirstName + " " + s.LastName
}
