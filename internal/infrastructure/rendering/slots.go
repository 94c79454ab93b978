package rendering

// Slot markers recognised in base documents.
const (
	SlotName            = "{{name}}"
	SlotID              = "{{id}}"
	SlotSlug            = "{{slug}}"
	SlotDescription     = "{{description}}"
	SlotDeveloper       = "{{developer}}"
	SlotPublisher       = "{{publisher}}"
	SlotReleaseDate     = "{{release_date}}"
	SlotMainImage       = "{{main_image}}"
	SlotPagePath        = "{{page_path}}"
	SlotScreenshots     = "{{screenshots}}"
	SlotScreenshotCount = "{{screenshot_count}}"
)

// RequiredSlots must appear in any base document fetched from the asset source.
var RequiredSlots = []string{SlotName, SlotDescription}
