package youtube

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

func parseVideo(r *videoRenderer) (*Video, error) {
	if r.VideoID == "" {
		return nil, missing("videoId")
	}
	thumbs := PrepThumbnails(r.Thumbnail.Thumbnails)
	badges := r.Badges.labels()
	isLive := false
	for _, b := range badges {
		if b == "LIVE NOW" || b == "LIVE" {
			isLive = true
			break
		}
	}

	v := &Video{
		Type:          TypeVideo,
		Title:         r.Title.String(),
		ID:            r.VideoID,
		URL:           baseVideoURL + r.VideoID,
		BestThumbnail: BestThumbnail(thumbs),
		Thumbnails:    thumbs,
		IsLive:        isLive,
		Badges:        badges,
		Description:   r.DescriptionSnippet.Ptr(),
		Views:         r.ViewCountText.IntPtr(),
		UploadedAt:    r.PublishedTimeText.Ptr(),
	}

	if r.UpcomingEventData != nil {
		if secs, err := strconv.ParseInt(r.UpcomingEventData.StartTime, 10, 64); err == nil {
			ms := secs * 1000
			v.Upcoming = &ms
			v.IsUpcoming = true
		}
	}

	if v.Description == nil && len(r.DetailedMetadataSnippets) > 0 {
		v.Description = r.DetailedMetadataSnippets[0].SnippetText.Ptr()
	}

	// No duration for live streams and premieres.
	if !v.IsLive && !v.IsUpcoming {
		v.Duration = r.LengthText.Ptr()
		if v.Duration == nil {
			for _, o := range r.ThumbnailOverlays {
				if o.ThumbnailOverlayTimeStatusRenderer != nil {
					v.Duration = o.ThumbnailOverlayTimeStatusRenderer.Text.Ptr()
					break
				}
			}
		}
	}

	run := r.OwnerText.FirstRun()
	if run == nil {
		run = r.ownerRun()
	}
	// Some content, e.g. shows, has no owner at all.
	if run != nil {
		v.Author = ownerFromRun(run, r.OwnerBadges)
		if r.ChannelThumbnailSupportedRenderers != nil {
			avatars := PrepThumbnails(r.ChannelThumbnailSupportedRenderers.ChannelThumbnailWithLinkRenderer.Thumbnail.Thumbnails)
			v.Author.Avatars = avatars
			v.Author.BestAvatar = BestThumbnail(avatars)
		}
	}
	return v, nil
}

func ownerFromRun(run *Run, badges badgeList) *Author {
	return &Author{
		Name:        run.Text,
		ChannelID:   run.NavigationEndpoint.browseID(),
		URL:         resolveURL(run.NavigationEndpoint.browseURL()),
		OwnerBadges: badges.tooltips(),
		Verified:    badges.verified(),
	}
}

// owner builds the author block of byline-based renderers, nil when there
// is no byline.
func (b *bylines) owner() *Author {
	run := b.ownerRun()
	if run == nil {
		return nil
	}
	return ownerFromRun(run, b.OwnerBadges)
}

func parseShort(r *reelItemRenderer) (*Short, error) {
	if r.VideoID == "" {
		return nil, missing("videoId")
	}
	thumbs := PrepThumbnails(r.Thumbnail.Thumbnails)
	link := resolveURL(r.NavigationEndpoint.webURL())
	if link == "" {
		link = baseURL + "shorts/" + r.VideoID
	}
	s := &Short{
		Type:          TypeShort,
		Title:         r.Headline.String(),
		ID:            r.VideoID,
		URL:           link,
		BestThumbnail: BestThumbnail(thumbs),
		Thumbnails:    thumbs,
		Views:         r.ViewCountText.String(),
		Published:     r.PublishedTimeText.Ptr(),
		Channel:       r.owner(),
	}
	if s.Channel != nil {
		s.Channel.OwnerBadges = nil
	}
	return s, nil
}

func channelURL(nav *navigationEndpoint, id string) string {
	if link := resolveURL(nav.browseURL()); link != "" {
		return link
	}
	return baseURL + "channel/" + id
}

func parseChannel(r *channelRenderer) (*Channel, error) {
	if r.ChannelID == "" {
		return nil, missing("channelId")
	}
	avatars := PrepThumbnails(r.Thumbnail.Thumbnails)
	var videos *int64
	if r.VideoCountText.Present() {
		videos = r.VideoCountText.IntPtr()
	}
	return &Channel{
		Type:             TypeChannel,
		Name:             r.Title.String(),
		ChannelID:        r.ChannelID,
		URL:              channelURL(r.NavigationEndpoint, r.ChannelID),
		BestAvatar:       BestThumbnail(avatars),
		Avatars:          avatars,
		Verified:         r.OwnerBadges.verified(),
		Subscribers:      r.SubscriberCountText.Ptr(),
		DescriptionShort: r.DescriptionSnippet.Ptr(),
		Videos:           videos,
	}, nil
}

// firstVideo builds the VideoSmall of a playlist or mix from its
// navigation endpoint and first child video.
func firstVideo(nav *navigationEndpoint, videos []childVideo, thumbs []Thumbnail) *VideoSmall {
	if len(videos) == 0 {
		return nil
	}
	id := nav.watchVideoID()
	child := videos[0].ChildVideoRenderer
	return &VideoSmall{
		ID:            id,
		ShortURL:      baseVideoURL + id,
		URL:           resolveURL(nav.webURL()),
		Title:         child.Title.String(),
		Length:        child.LengthText.String(),
		Thumbnails:    thumbs,
		BestThumbnail: BestThumbnail(thumbs),
	}
}

func parsePlaylist(r *playlistRenderer) (*Playlist, error) {
	if r.PlaylistID == "" {
		return nil, missing("playlistId")
	}
	var thumbs []Thumbnail
	if len(r.Thumbnails) > 0 {
		thumbs = PrepThumbnails(r.Thumbnails[0].Thumbnails)
	}
	length, _ := strconv.ParseInt(strings.TrimSpace(r.VideoCount), 10, 64)
	return &Playlist{
		Type:        TypePlaylist,
		Title:       r.Title.String(),
		PlaylistID:  r.PlaylistID,
		URL:         baseURL + "playlist?list=" + r.PlaylistID,
		FirstVideo:  firstVideo(r.NavigationEndpoint, r.Videos, thumbs),
		Owner:       r.owner(),
		PublishedAt: r.PublishedTimeText.Ptr(),
		Length:      length,
	}, nil
}

func parseMix(r *radioRenderer) (*Mix, error) {
	link := resolveURL(r.NavigationEndpoint.webURL())
	if link == "" {
		return nil, missing("navigationEndpoint")
	}
	return &Mix{
		Type:       TypeMix,
		Title:      r.Title.String(),
		URL:        link,
		FirstVideo: firstVideo(r.NavigationEndpoint, r.Videos, PrepThumbnails(r.Thumbnail.Thumbnails)),
	}, nil
}

func parseGridMovie(r *gridMovieRenderer) (*GridMovie, error) {
	if r.VideoID == "" {
		return nil, missing("videoId")
	}
	thumbs := PrepThumbnails(r.Thumbnail.Thumbnails)
	link := resolveURL(r.NavigationEndpoint.webURL())
	if link == "" {
		link = baseVideoURL + r.VideoID
	}
	return &GridMovie{
		Type:          TypeGridMovie,
		Title:         r.Title.String(),
		VideoID:       r.VideoID,
		URL:           link,
		Thumbnails:    thumbs,
		BestThumbnail: BestThumbnail(thumbs),
		Duration:      r.LengthText.Ptr(),
	}, nil
}

func parseMovie(r *movieRenderer) (*Movie, error) {
	if r.VideoID == "" {
		return nil, missing("videoId")
	}
	thumbs := PrepThumbnails(r.Thumbnail.Thumbnails)
	link := resolveURL(r.NavigationEndpoint.webURL())
	if link == "" {
		link = baseVideoURL + r.VideoID
	}
	m := &Movie{
		Type:          TypeMovie,
		Title:         r.Title.String(),
		VideoID:       r.VideoID,
		URL:           link,
		BestThumbnail: BestThumbnail(thumbs),
		Thumbnails:    thumbs,
		Owner:         r.owner(),
		Description:   r.DescriptionSnippet.Ptr(),
		Meta:          []string{},
		Actors:        []string{},
		Directors:     []string{},
		Duration:      r.LengthText.String(),
	}
	if len(r.TopMetadataItems) > 0 {
		if meta := r.TopMetadataItems[0].String(); meta != "" {
			m.Meta = strings.Split(meta, " · ")
		}
	}
	// Bottom items are positional: actors first, directors second. The
	// labels before ':' are localized.
	m.Actors = bottomNames(r.BottomMetadataItems, 0)
	m.Directors = bottomNames(r.BottomMetadataItems, 1)
	return m, nil
}

func bottomNames(items []Text, i int) []string {
	if i >= len(items) {
		return []string{}
	}
	_, names, ok := strings.Cut(items[i].String(), ":")
	if !ok {
		return []string{}
	}
	return splitNames(names)
}

func splitNames(s string) []string {
	out := []string{}
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func parseShow(r *showRenderer) (*Show, error) {
	if r.ThumbnailRenderer == nil {
		return nil, missing("thumbnailRenderer")
	}
	if r.NavigationEndpoint == nil {
		return nil, missing("navigationEndpoint")
	}
	thumbs := PrepThumbnails(r.ThumbnailRenderer.ShowCustomThumbnailRenderer.Thumbnail.Thumbnails)
	s := &Show{
		Type:          TypeShow,
		Title:         r.Title.String(),
		Thumbnails:    thumbs,
		BestThumbnail: BestThumbnail(thumbs),
		URL:           resolveURL(r.NavigationEndpoint.webURL()),
		VideoID:       r.NavigationEndpoint.watchVideoID(),
		Owner:         r.owner(),
	}
	if r.NavigationEndpoint.WatchEndpoint != nil {
		s.PlaylistID = r.NavigationEndpoint.WatchEndpoint.PlaylistID
	}
	if s.URL == "" && s.VideoID != "" {
		s.URL = baseVideoURL + s.VideoID
		if s.PlaylistID != "" {
			s.URL += "&list=" + url.QueryEscape(s.PlaylistID)
		}
	}
	if s.URL == "" {
		return nil, missing("navigationEndpoint")
	}
	for _, o := range r.ThumbnailOverlays {
		if o.ThumbnailOverlayBottomPanelRenderer != nil {
			s.Episodes = o.ThumbnailOverlayBottomPanelRenderer.Text.Int()
			break
		}
	}
	// Show owners carry no badges.
	if s.Owner != nil {
		s.Owner.OwnerBadges = nil
		s.Owner.Verified = false
	}
	return s, nil
}

func parseClarification(r *clarificationRenderer) (*Clarification, error) {
	c := &Clarification{
		Type:    TypeClarification,
		Title:   r.ContentTitle.String(),
		Text:    r.Text.String(),
		Sources: []ClarificationSource{},
	}
	if r.Source.Present() || r.Endpoint != nil {
		src, err := clarificationSource(r.Source, r.Endpoint, "endpoint")
		if err != nil {
			return nil, err
		}
		c.Sources = append(c.Sources, src)
	}
	if r.SecondarySource.Present() {
		src, err := clarificationSource(r.SecondarySource, r.SecondaryEndpoint, "secondaryEndpoint")
		if err != nil {
			return nil, err
		}
		c.Sources = append(c.Sources, src)
	}
	return c, nil
}

func clarificationSource(text *Text, ep *navigationEndpoint, field string) (ClarificationSource, error) {
	if ep == nil || ep.URLEndpoint == nil || ep.URLEndpoint.URL == "" {
		return ClarificationSource{}, missing(field)
	}
	return ClarificationSource{Text: text.String(), URL: resolveURL(ep.URLEndpoint.URL)}, nil
}

// Shelves run the full classifier over their children, so shelves may nest.
func parseShelf(r *shelfRenderer) (Outcome, error) {
	var raws []json.RawMessage
	switch {
	case len(r.Contents) > 0:
		for _, c := range r.Contents {
			if c.RichItemRenderer != nil {
				raws = append(raws, c.RichItemRenderer.Content)
			}
		}
	case r.Content != nil && r.Content.VerticalListRenderer != nil:
		raws = r.Content.VerticalListRenderer.Items
	case r.Content != nil && r.Content.HorizontalMovieListRenderer != nil:
		raws = r.Content.HorizontalMovieListRenderer.Items
	case r.Content != nil && r.Content.HorizontalListRenderer != nil:
		raws = r.Content.HorizontalListRenderer.Items
	}
	return shelfOutcome(r.Title.StringOr("Show More"), raws)
}

func parseReelShelf(r *reelShelfRenderer) (Outcome, error) {
	return shelfOutcome(r.Title.StringOr("Shorts"), r.Items)
}

func shelfOutcome(title string, raws []json.RawMessage) (Outcome, error) {
	items, effects, err := classifyAll(raws)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Item:    &Shelf{Type: TypeShelf, Title: title, Items: items},
		Effects: effects,
	}, nil
}
