package model

type Account struct {
	DTO
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Password    string `gorm:"not null" json:"-"`
	Role        Role   `gorm:"size:20;not null" json:"role"`
	TableNumber *int   `gorm:"uniqueIndex" json:"table_number"`
	Active      bool   `gorm:"not null;default:true" json:"active"`
}

type Accounts []Account

func (a Account) Actor() Actor {
	return Actor{AccountID: a.ID, Role: a.Role, TableNumber: a.TableNumber}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type CreateTableInput struct {
	TableNumber int `json:"table_number" validate:"required,gt=0"`
}
