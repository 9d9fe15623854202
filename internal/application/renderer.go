package application

import "github.com/ericfisherdev/repocard/internal/domain/model"

// Stat labels, in display order.
const (
	labelContributors = "Contributors"
	labelStars        = "Stars"
	labelWatchers     = "Watchers"
	labelForks        = "Forks"
	labelIssues       = "Issues"
)

// RenderCard maps a render state to the card structure. It is a pure
// function; escaping happens where the view is written out.
func RenderCard(state model.RenderState) model.CardView {
	switch state.Phase {
	case model.RenderReady:
		return renderReady(state.Record, state.Display)
	case model.RenderError:
		return model.CardView{
			State:   model.RenderError,
			Stats:   []model.StatEntry{},
			Message: state.Message,
		}
	default:
		return model.CardView{
			State: model.RenderLoading,
			Stats: []model.StatEntry{},
		}
	}
}

// IdleCard is the placeholder for a block whose URL has not been entered.
func IdleCard() model.CardView {
	return model.CardView{
		State:   model.CardIdle,
		Stats:   []model.StatEntry{},
		Message: model.MessageIdle,
	}
}

func renderReady(record model.RepositoryRecord, display model.DisplayConfig) model.CardView {
	link := record.HTMLURL
	if link == "" {
		link = record.URL
	}

	return model.CardView{
		State: model.RenderReady,
		Header: model.CardHeader{
			AvatarURL:   record.OwnerAvatarURL,
			AvatarAlt:   record.OwnerLogin + " avatar",
			DisplayName: record.Name,
			LinkURL:     link,
		},
		Owner:       record.OwnerLogin,
		Description: record.Description,
		Stats:       visibleStats(record, display),
	}
}

// visibleStats returns the enabled stats in the fixed order
// Contributors, Stars, Watchers, Forks, Issues.
func visibleStats(record model.RepositoryRecord, display model.DisplayConfig) []model.StatEntry {
	all := []struct {
		show  bool
		entry model.StatEntry
	}{
		{display.ShowContributors, model.StatEntry{IconKey: model.IconContributor, Count: record.ContributorCount, Label: labelContributors}},
		{display.ShowStars, model.StatEntry{IconKey: model.IconStar, Count: record.StarCount, Label: labelStars}},
		{display.ShowWatchers, model.StatEntry{IconKey: model.IconWatch, Count: record.WatcherCount, Label: labelWatchers}},
		{display.ShowForks, model.StatEntry{IconKey: model.IconFork, Count: record.ForkCount, Label: labelForks}},
		{display.ShowIssues, model.StatEntry{IconKey: model.IconIssue, Count: record.OpenIssueCount, Label: labelIssues}},
	}

	stats := make([]model.StatEntry, 0, len(all))
	for _, s := range all {
		if s.show {
			stats = append(stats, s.entry)
		}
	}
	return stats
}
