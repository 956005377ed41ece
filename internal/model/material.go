package model

type MaterialState string

const (
	MaterialStateActive   MaterialState = "active"
	MaterialStateArchived MaterialState = "archived"
)

type MaterialType string

const (
	MaterialTypeStudent MaterialType = "student"
	MaterialTypeTeacher MaterialType = "teacher"
)

// Material — учебный материал недели: либо файл (FileRef + Checksum),
// либо внешняя ссылка (Link). Активна не более одной версии на пару
// (week, type); предыдущая версия архивируется.
type Material struct {
	ID         string        `csv:"material_id"`
	Week       int           `csv:"week"`
	Type       MaterialType  `csv:"type"`
	Visibility string        `csv:"visibility"`
	FileRef    string        `csv:"file_ref"`
	Link       string        `csv:"link"`
	SizeBytes  int64         `csv:"size_bytes"`
	Checksum   string        `csv:"checksum"`
	State      MaterialState `csv:"state"`
	UploadedBy int64         `csv:"uploaded_by"`
	CreatedAt  string        `csv:"created_at"`
	UpdatedAt  string        `csv:"updated_at"`
}
