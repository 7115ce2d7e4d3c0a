package model

// Sector groups courses into a browsable category
type Sector struct {
	ID          int64  `db:"id"`
	SectorUUID  string `db:"sector_uuid"`
	Name        string `db:"name"`
	SectorImage string `db:"sector_image"` // media object key
}
