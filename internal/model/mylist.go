package model

import (
	"errors"

	"gorm.io/gorm"
)

var ErrInvalidFavoriteTarget = errors.New("favorite must reference exactly one of course or news")

type FavoriteKind string

const (
	FavoriteCourse FavoriteKind = "course"
	FavoriteNews   FavoriteKind = "news"
)

// FavoriteTarget 收藏对象：讲座或お知らせ二选一
type FavoriteTarget struct {
	Kind FavoriteKind `json:"kind"`
	ID   uint         `json:"id"`
}

func CourseTarget(id uint) FavoriteTarget {
	return FavoriteTarget{Kind: FavoriteCourse, ID: id}
}

func NewsTarget(id uint) FavoriteTarget {
	return FavoriteTarget{Kind: FavoriteNews, ID: id}
}

func (t FavoriteTarget) Validate() error {
	if t.ID == 0 {
		return ErrInvalidFavoriteTarget
	}
	if t.Kind != FavoriteCourse && t.Kind != FavoriteNews {
		return ErrInvalidFavoriteTarget
	}
	return nil
}

// Mylist 在表里仍是两个可空外键，只能通过 NewMylist 构造
type Mylist struct {
	BaseModel
	UserID   uint    `gorm:"uniqueIndex:idx_mylist_user_course;uniqueIndex:idx_mylist_user_news;not null" json:"userId"`
	CourseID *uint   `gorm:"uniqueIndex:idx_mylist_user_course" json:"courseId,omitempty"`
	Course   *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	NewsID   *uint   `gorm:"uniqueIndex:idx_mylist_user_news" json:"newsId,omitempty"`
	News     *News   `gorm:"foreignKey:NewsID;constraint:OnDelete:CASCADE" json:"news,omitempty"`
}

func (Mylist) TableName() string {
	return "mylists"
}

func NewMylist(userID uint, target FavoriteTarget) (*Mylist, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	id := target.ID
	m := &Mylist{UserID: userID}
	if target.Kind == FavoriteCourse {
		m.CourseID = &id
	} else {
		m.NewsID = &id
	}
	return m, nil
}

// Target 还原成 FavoriteTarget，两列同时为空或同时有值时报错
func (m *Mylist) Target() (FavoriteTarget, error) {
	switch {
	case m.CourseID != nil && m.NewsID == nil:
		return CourseTarget(*m.CourseID), nil
	case m.NewsID != nil && m.CourseID == nil:
		return NewsTarget(*m.NewsID), nil
	default:
		return FavoriteTarget{}, ErrInvalidFavoriteTarget
	}
}

func (m *Mylist) BeforeSave(tx *gorm.DB) error {
	_, err := m.Target()
	return err
}
