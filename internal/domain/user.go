package domain

import "time"

type User struct {
	ID        UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Login     string    `gorm:"type:citext;uniqueIndex:ux_users_login" db:"login" json:"login"`
	Email     string    `gorm:"type:citext;uniqueIndex:ux_users_email" db:"email" json:"email"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
	SoftDeletable
}

func (User) TableName() string { return "users" }

type PasswordCredential struct {
	ID          CredentialID `gorm:"type:uuid;primaryKey" db:"id"`
	UserID      UserID       `gorm:"type:uuid;uniqueIndex:ux_pwd_user" db:"user_id"`
	Algo        string       `gorm:"type:text;not null" db:"algo"`
	Hash        []byte       `gorm:"type:bytea;not null" db:"hash"`
	Salt        []byte       `gorm:"type:bytea;not null" db:"salt"`
	ParamsJSON  []byte       `gorm:"type:jsonb;not null" db:"params_json"`
	PasswordVer int          `gorm:"not null;default:1" db:"password_ver"`
	CreatedAt   time.Time    `gorm:"not null" db:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" db:"updated_at"`
}

func (PasswordCredential) TableName() string { return "password_credentials" }

func (p *PasswordCredential) GetAlgo() string       { return p.Algo }
func (p *PasswordCredential) GetHash() []byte       { return p.Hash }
func (p *PasswordCredential) GetSalt() []byte       { return p.Salt }
func (p *PasswordCredential) GetParamsJSON() []byte { return p.ParamsJSON }
func (p *PasswordCredential) GetPasswordVer() int   { return p.PasswordVer }
