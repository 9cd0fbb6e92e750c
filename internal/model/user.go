package model

import (
	"crypto/rand"
	"math/big"

	"gorm.io/gorm"
)

type UserRank string

const (
	Administer UserRank = "administer"
	Moderator  UserRank = "moderator"
	Staff      UserRank = "staff"
	Visitor    UserRank = "visitor"
)

var AllRanks = []UserRank{Administer, Moderator, Staff, Visitor}

func (r UserRank) Valid() bool {
	for _, rank := range AllRanks {
		if r == rank {
			return true
		}
	}
	return false
}

// 会员编号范围 [1e12, 1e13)
const (
	memberNumMin = 1000000000000
	memberNumMax = 10000000000000
)

// swagger:model User
type User struct {
	BaseModel
	MemberNum int64    `gorm:"uniqueIndex;not null" json:"memberNum"`
	Username  string   `gorm:"size:20;index;not null" json:"username"`
	Name      string   `gorm:"size:20" json:"name"`
	Email     string   `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string   `gorm:"size:100;not null" json:"-"`
	Rank      UserRank `gorm:"column:user_rank;size:20;index;default:'visitor'" json:"rank"`
	IsActive  bool     `gorm:"not null" json:"isActive"`
	Avatar    string   `gorm:"size:255" json:"avatar"`
	Remarks   string   `gorm:"size:500" json:"remarks"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.MemberNum == 0 {
		n, err := RandomMemberNum()
		if err != nil {
			return err
		}
		u.MemberNum = n
	}
	if u.Rank == "" {
		u.Rank = Visitor
	}
	return nil
}

// RandomMemberNum 生成13位会员编号，冲突由唯一索引兜底
func RandomMemberNum() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(memberNumMax-memberNumMin))
	if err != nil {
		return 0, err
	}
	return n.Int64() + memberNumMin, nil
}
