package bot

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/romizzidiamly/vocabmaster/internal/excel"
	"github.com/romizzidiamly/vocabmaster/internal/recall"
	"github.com/romizzidiamly/vocabmaster/pkg/models"
)

const topicPrefix = "topic:"

const helpText = `👋 Welcome to VocabMaster!

Pick a topic, then type every word you can remember from it.
Each word you find reveals its synonyms to guess.

/topics - list topics
/play <number> - open a topic
/go - start playing the open topic
/guess <word> <synonym> - guess a synonym of a revealed word
/card <word> - show meaning, pronunciation and examples
/regen <word> - fetch fresh examples for a word
/reset - hide every word of the topic again
/stats - show progress
/exit - back to the topic list`

func (b *Bot) handleStart(chatID int64) {
	b.replyWithMenu(chatID, helpText)
}

// showTopics lists topics newest first, one button per topic
func (b *Bot) showTopics(chatID int64) {
	topics := b.engine.Topics()
	if len(topics) == 0 {
		b.reply(chatID, "No topics yet. An administrator can send a spreadsheet to create one.")
		return
	}

	var text strings.Builder
	text.WriteString("📚 Topics:\n\n")
	buttons := make([][]MenuButton, 0, len(topics))
	for i, t := range topics {
		fmt.Fprintf(&text, "%d. %s (%d words)\n", i+1, t.Name, len(t.Items))
		buttons = append(buttons, []MenuButton{{Text: t.Name, CallbackData: topicPrefix + t.ID}})
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = createKeyboard(buttons)
	b.send(msg)
}

// handlePlay opens a topic by its position in /topics or by name
func (b *Bot) handlePlay(chatID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		b.showTopics(chatID)
		return
	}

	topics := b.engine.Topics()
	if n, err := strconv.Atoi(args); err == nil {
		if n < 1 || n > len(topics) {
			b.reply(chatID, "No topic with that number. Use /topics to see the list.")
			return
		}
		b.selectTopic(chatID, topics[n-1].ID)
		return
	}
	for _, t := range topics {
		if strings.EqualFold(t.Name, args) {
			b.selectTopic(chatID, t.ID)
			return
		}
	}
	b.reply(chatID, "Topic not found. Use /topics to see the list.")
}

func (b *Bot) selectTopic(chatID int64, topicID string) {
	session := b.session(chatID)
	if err := session.SelectTopic(topicID); err != nil {
		b.reply(chatID, "Topic not found. Use /topics to see the list.")
		return
	}
	b.showPreview(chatID, session)
}

func (b *Bot) showPreview(chatID int64, session *recall.Session) {
	state := session.State()
	text := fmt.Sprintf("📖 %s\n\n%d words, %d discovered, %d mastered.\nPress Start or send /go when you are ready.",
		state.TopicName, state.Stats.TotalCount, state.Stats.DiscoveredCount, state.Stats.MasteredCount)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "▶️ Start", CallbackData: "go"}},
		{{Text: "⬅️ Back", CallbackData: "exit"}},
	})
	b.send(msg)
}

func (b *Bot) handleGo(chatID int64) {
	session := b.session(chatID)
	if err := session.ConfirmPreview(); err != nil {
		b.reply(chatID, "Open a topic first with /topics.")
		return
	}
	b.reply(chatID, "🎯 Go! Type the words you remember, one per message.")
}

// handleText treats plain text as a discovery attempt while playing
func (b *Bot) handleText(chatID int64, text string) {
	session := b.session(chatID)
	if session.Phase() != models.PhasePlaying {
		b.replyWithMenu(chatID, "I don't understand. Pick a topic and send /go to start playing.")
		return
	}

	item, outcome := session.DiscoverWord(text)
	switch outcome {
	case recall.Discovered:
		b.reply(chatID, fmt.Sprintf("✅ %s\nIt has %d synonyms. Guess them with /guess %s <synonym>.",
			outcome.Message(item.Word), len(item.Synonyms), item.Word))
	case recall.AlreadyRevealed:
		b.reply(chatID, "ℹ️ "+outcome.Message(item.Word))
	default:
		b.reply(chatID, "❌ "+outcome.Message(text))
	}
}

func (b *Bot) handleGuess(chatID int64, args string) {
	if len(strings.Fields(args)) < 2 {
		b.reply(chatID, "Usage: /guess <word> <synonym>")
		return
	}

	session := b.session(chatID)
	item, guess, found := splitGuess(session.State(), args)
	if !found || !item.Status.Revealed() {
		b.reply(chatID, "Discover that word first.")
		return
	}

	if !session.GuessSynonym(item.ID, guess) {
		b.reply(chatID, fmt.Sprintf("❌ %q is not a synonym of %q.", guess, item.Word))
		return
	}

	state := session.State()
	updated, _ := findItemByID(state, item.ID)
	text := fmt.Sprintf("✅ Correct! %d/%d synonyms of %q. Score: %d",
		len(updated.UserGuesses), len(updated.Synonyms), updated.Word, state.Score)
	if updated.Status == models.StatusMastered {
		text += "\n🏆 Mastered!"
	}
	b.reply(chatID, text)
}

func (b *Bot) handleRegen(chatID int64, args string) {
	session := b.session(chatID)
	item, found := findItem(session.State(), args)
	if !found {
		b.reply(chatID, "Usage: /regen <word> (a word from the open topic)")
		return
	}
	if err := session.RegenerateEnrichment(item.ID); err != nil {
		b.reply(chatID, "Could not refresh that word.")
		return
	}
	b.reply(chatID, fmt.Sprintf("🔄 Fetching fresh content for %q. Check /card %s in a moment.", item.Word, item.Word))
}

// handleCard shows the enrichment of a revealed word
func (b *Bot) handleCard(chatID int64, args string) {
	item, found := findItem(b.session(chatID).State(), args)
	if !found || !item.Status.Revealed() {
		b.reply(chatID, "Discover that word first.")
		return
	}
	b.reply(chatID, formatCard(item))
}

func (b *Bot) handleReset(chatID int64) {
	if err := b.session(chatID).ResetTopicProgress(); err != nil {
		b.reply(chatID, "Open a topic first with /topics.")
		return
	}
	b.reply(chatID, "🔁 Progress reset. Every word is hidden again.")
}

func (b *Bot) handleStats(chatID int64) {
	state := b.session(chatID).State()
	if state.ActiveTopicID == "" {
		b.replyWithMenu(chatID, fmt.Sprintf("📊 %d topics available. Open one to see its progress.", len(b.engine.Topics())))
		return
	}
	b.reply(chatID, fmt.Sprintf("📊 %s\n\nDiscovered: %d/%d\nMastered: %d\nScore: %d",
		state.TopicName, state.Stats.DiscoveredCount, state.Stats.TotalCount, state.Stats.MasteredCount, state.Score))
}

func (b *Bot) handleExit(chatID int64) {
	b.session(chatID).ExitToList()
	b.showTopics(chatID)
}

func (b *Bot) handleDelete(chatID int64, args string) {
	args = strings.TrimSpace(args)
	n, err := strconv.Atoi(args)
	topics := b.engine.Topics()
	if err != nil || n < 1 || n > len(topics) {
		b.reply(chatID, "Usage: /delete <number> (see /topics)")
		return
	}
	topic := topics[n-1]
	b.engine.DeleteTopic(topic.ID)
	b.reply(chatID, fmt.Sprintf("🗑 Deleted %q.", topic.Name))
}

// importSpreadsheet extracts vocabulary from an uploaded file and opens it in preview
func (b *Bot) importSpreadsheet(chatID int64, filename string, data []byte) {
	result, err := excel.Import(bytes.NewReader(data), filename)
	if err != nil {
		b.log.Warn("spreadsheet import failed", "file", filename, "error", err)
		b.reply(chatID, "❌ Could not read that file. Send an .xlsx or .csv spreadsheet.")
		return
	}
	if result.Empty() {
		b.reply(chatID, "❌ No vocabulary found. The sheet needs a header row with a word column and a synonyms column.")
		return
	}

	session := b.session(chatID)
	topic, err := session.AddTopic(excel.TopicNameFromFile(filename), result.Items)
	if err != nil {
		if errors.Is(err, recall.ErrEmptyName) {
			b.reply(chatID, "❌ The file needs a name to become a topic.")
			return
		}
		b.reply(chatID, "❌ Could not create the topic.")
		return
	}

	b.log.Info("topic imported", "chat_id", chatID, "topic_id", topic.ID, "items", len(topic.Items), "skipped", result.Skipped)
	b.reply(chatID, fmt.Sprintf("✅ Imported %d words into %q.", len(topic.Items), topic.Name))
	b.showPreview(chatID, session)
}

// findItem looks a word up in the open topic. Revealed items win over hidden duplicates.
func findItem(state models.SessionState, word string) (models.VocabItem, bool) {
	needle := strings.ToLower(strings.TrimSpace(word))
	if needle == "" {
		return models.VocabItem{}, false
	}

	var (
		match models.VocabItem
		found bool
	)
	for _, item := range state.Items {
		if strings.ToLower(item.Word) != needle {
			continue
		}
		if item.Status.Revealed() {
			return item, true
		}
		if !found {
			match, found = item, true
		}
	}
	return match, found
}

// splitGuess separates "<word> <synonym>" where the word may span several
// tokens. The longest leading run naming an item of the open topic wins.
func splitGuess(state models.SessionState, args string) (models.VocabItem, string, bool) {
	fields := strings.Fields(args)
	for n := len(fields) - 1; n >= 1; n-- {
		if item, ok := findItem(state, strings.Join(fields[:n], " ")); ok {
			return item, strings.Join(fields[n:], " "), true
		}
	}
	return models.VocabItem{}, "", false
}

func findItemByID(state models.SessionState, id string) (models.VocabItem, bool) {
	for _, item := range state.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.VocabItem{}, false
}

func formatCard(item models.VocabItem) string {
	var text strings.Builder
	fmt.Fprintf(&text, "📝 %s\n", item.Word)

	if item.Phonetics != nil {
		fmt.Fprintf(&text, "🇺🇸 %s  🇬🇧 %s\n", item.Phonetics.US, item.Phonetics.UK)
	}
	if item.Meaning != "" {
		fmt.Fprintf(&text, "\n%s\n", item.Meaning)
	}
	if len(item.Examples) > 0 {
		text.WriteString("\nExamples:\n")
		for _, ex := range item.Examples {
			fmt.Fprintf(&text, "• [%s] %s\n", ex.Type, ex.Text)
			if ex.Translation != "" {
				fmt.Fprintf(&text, "  %s\n", ex.Translation)
			}
		}
	}
	if !item.HasEnrichment() {
		text.WriteString("\n⏳ Details are still loading.\n")
	}

	guessed := len(item.UserGuesses)
	fmt.Fprintf(&text, "\nSynonyms guessed: %d/%d", guessed, len(item.Synonyms))
	if guessed > 0 {
		fmt.Fprintf(&text, " (%s)", strings.Join(item.UserGuesses, ", "))
	}
	return text.String()
}
