package model

const (
	MediaTypePhoto        = "photo"
	MediaTypeAudioMemo    = "audio_memo"
	MediaTypeAmbientSound = "ambient_sound"
)

// MediaFile is one stored blob reference. FilePath is a local path, or
// a cloud URL once the file has been synced. Rows are owned by their
// experience and cascade-delete with it.
type MediaFile struct {
	ID           string `db:"id"`
	ExperienceID string `db:"experience_id"`
	FileType     string `db:"file_type"`
	FilePath     string `db:"file_path"`
	FileSize     *int64 `db:"file_size"`
	Duration     *int64 `db:"duration"`
	CreatedAt    int64  `db:"created_at"`
}
