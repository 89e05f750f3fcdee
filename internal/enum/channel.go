package enum

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelWeb   Channel = "web"
)

func (t Channel) String() string {
	return string(t)
}

type ContentFormat string

const (
	ContentFormatEmail ContentFormat = "email"
	ContentFormatRich  ContentFormat = "rich"
	ContentFormatPlain ContentFormat = "plain"
)

func (t ContentFormat) String() string {
	return string(t)
}

type MemoryStatus string

const (
	MemoryStatusDraft     MemoryStatus = "draft"
	MemoryStatusPublished MemoryStatus = "published"
)

func (t MemoryStatus) String() string {
	return string(t)
}

type IngestOutcome string

const (
	IngestAccepted  IngestOutcome = "accepted"
	IngestDuplicate IngestOutcome = "duplicate"
	IngestRejected  IngestOutcome = "rejected"
)

func (t IngestOutcome) String() string {
	return string(t)
}
