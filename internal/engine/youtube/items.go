package youtube

// ItemType names a normalized item variant. It is also the "type" field of
// the item's JSON form.
type ItemType string

const (
	TypeVideo                 ItemType = "video"
	TypeShort                 ItemType = "short"
	TypeChannel               ItemType = "channel"
	TypePlaylist              ItemType = "playlist"
	TypeMix                   ItemType = "mix"
	TypeGridMovie             ItemType = "gridMovie"
	TypeMovie                 ItemType = "movie"
	TypeShow                  ItemType = "show"
	TypeShelf                 ItemType = "shelf"
	TypeClarification         ItemType = "clarification"
	TypeHorizontalChannelList ItemType = "horizontalChannelList"
	TypeChannelPreview        ItemType = "channelPreview"
	TypeRefinement            ItemType = "refinement"
)

// Item is one normalized search result.
type Item interface {
	ItemType() ItemType
}

// Author describes the owner of a video, playlist, movie or show.
// Fields the source renderer does not carry are left empty.
type Author struct {
	Name        string      `json:"name"`
	ChannelID   string      `json:"channelID"`
	URL         string      `json:"url"`
	BestAvatar  *Thumbnail  `json:"bestAvatar,omitempty"`
	Avatars     []Thumbnail `json:"avatars,omitempty"`
	OwnerBadges []string    `json:"ownerBadges,omitempty"`
	Verified    bool        `json:"verified"`
}

type Video struct {
	Type          ItemType    `json:"type"`
	Title         string      `json:"title"`
	ID            string      `json:"id"`
	URL           string      `json:"url"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	IsUpcoming    bool        `json:"isUpcoming"`
	Upcoming      *int64      `json:"upcoming"` // start time, unix ms
	IsLive        bool        `json:"isLive"`
	Badges        []string    `json:"badges"`
	Author        *Author     `json:"author"`
	Description   *string     `json:"description"`
	Views         *int64      `json:"views"`
	Duration      *string     `json:"duration"`
	UploadedAt    *string     `json:"uploadedAt"`
}

func (*Video) ItemType() ItemType { return TypeVideo }

type Short struct {
	Type          ItemType    `json:"type"`
	Title         string      `json:"title"`
	ID            string      `json:"id"`
	URL           string      `json:"url"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	Views         string      `json:"views"`
	Published     *string     `json:"published"`
	Channel       *Author     `json:"channel"`
}

func (*Short) ItemType() ItemType { return TypeShort }

type Channel struct {
	Type             ItemType    `json:"type"`
	Name             string      `json:"name"`
	ChannelID        string      `json:"channelID"`
	URL              string      `json:"url"`
	BestAvatar       *Thumbnail  `json:"bestAvatar"`
	Avatars          []Thumbnail `json:"avatars"`
	Verified         bool        `json:"verified"`
	Subscribers      *string     `json:"subscribers"`
	DescriptionShort *string     `json:"descriptionShort"`
	Videos           *int64      `json:"videos"`
}

func (*Channel) ItemType() ItemType { return TypeChannel }

// VideoSmall is the first entry of a playlist or mix.
type VideoSmall struct {
	ID            string      `json:"id"`
	ShortURL      string      `json:"shortURL"`
	URL           string      `json:"url"`
	Title         string      `json:"title"`
	Length        string      `json:"length"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
}

type Playlist struct {
	Type        ItemType    `json:"type"`
	Title       string      `json:"title"`
	PlaylistID  string      `json:"playlistID"`
	URL         string      `json:"url"`
	FirstVideo  *VideoSmall `json:"firstVideo"`
	Owner       *Author     `json:"owner"`
	PublishedAt *string     `json:"publishedAt"`
	Length      int64       `json:"length"`
}

func (*Playlist) ItemType() ItemType { return TypePlaylist }

type Mix struct {
	Type       ItemType    `json:"type"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	FirstVideo *VideoSmall `json:"firstVideo"`
}

func (*Mix) ItemType() ItemType { return TypeMix }

// GridMovie is a movie tile from a horizontal movie list.
type GridMovie struct {
	Type          ItemType    `json:"type"`
	Title         string      `json:"title"`
	VideoID       string      `json:"videoID"`
	URL           string      `json:"url"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	Duration      *string     `json:"duration"`
}

func (*GridMovie) ItemType() ItemType { return TypeGridMovie }

type Movie struct {
	Type          ItemType    `json:"type"`
	Title         string      `json:"title"`
	VideoID       string      `json:"videoID"`
	URL           string      `json:"url"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	Owner         *Author     `json:"author"`
	Description   *string     `json:"description"`
	Meta          []string    `json:"meta"`
	Actors        []string    `json:"actors"`
	Directors     []string    `json:"directors"`
	Duration      string      `json:"duration"`
}

func (*Movie) ItemType() ItemType { return TypeMovie }

type Show struct {
	Type          ItemType    `json:"type"`
	Title         string      `json:"title"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	URL           string      `json:"url"`
	VideoID       string      `json:"videoID"`
	PlaylistID    string      `json:"playlistID"`
	Episodes      int64       `json:"episodes"`
	Owner         *Author     `json:"owner"`
}

func (*Show) ItemType() ItemType { return TypeShow }

// Shelf is a titled group of items nested in a results page.
type Shelf struct {
	Type  ItemType `json:"type"`
	Title string   `json:"title"`
	Items []Item   `json:"items"`
}

func (*Shelf) ItemType() ItemType { return TypeShelf }

type ClarificationSource struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Clarification is an information panel such as a fact-check notice.
type Clarification struct {
	Type    ItemType              `json:"type"`
	Title   string                `json:"title"`
	Text    string                `json:"text"`
	Sources []ClarificationSource `json:"sources"`
}

func (*Clarification) ItemType() ItemType { return TypeClarification }

type ChannelPreview struct {
	Type        ItemType    `json:"type"`
	Name        string      `json:"name"`
	ChannelID   string      `json:"channelID"`
	URL         string      `json:"url"`
	BestAvatar  *Thumbnail  `json:"bestAvatar"`
	Avatars     []Thumbnail `json:"avatars"`
	Subscribers string      `json:"subscribers"`
	Videos      []*Video    `json:"videos"`
}

type HorizontalChannelList struct {
	Type     ItemType         `json:"type"`
	Title    string           `json:"title"`
	Channels []ChannelPreview `json:"channels"`
}

func (*HorizontalChannelList) ItemType() ItemType { return TypeHorizontalChannelList }

// Refinement is a suggested alternative query. Thumbnails are only set for
// refinements that came from a card list.
type Refinement struct {
	Q             string      `json:"q"`
	URL           string      `json:"url"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
}

func (*Refinement) ItemType() ItemType { return TypeRefinement }
