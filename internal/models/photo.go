package models

type Photo struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// PlacePhoto links a photo to a place. The first photo attached on
// create/update is flagged as the main one.
type PlacePhoto struct {
	ID      int   `gorm:"primaryKey" json:"id"`
	PlaceID int   `gorm:"not null;index;uniqueIndex:idx_place_photo" json:"placeId"`
	PhotoID int   `gorm:"not null;uniqueIndex:idx_place_photo" json:"photoId"`
	IsMain  bool  `gorm:"not null;default:false" json:"isMain"`
	Photo   Photo `json:"photo"`
}

func (PlacePhoto) TableName() string {
	return "photos_places"
}
