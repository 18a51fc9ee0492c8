package ai

import "fmt"

const systemPrompt = "You are an IELTS tutor that provides vocabulary examples in JSON format."

// buildPrompt asks for the Indonesian meaning, US/UK phonetics and one
// example sentence per IELTS sentence type, all as a single JSON object.
func buildPrompt(word string) string {
	return fmt.Sprintf(`Act as an IELTS Writing Expert and Indonesian Translator. For the vocabulary word "%s", generate its Indonesian meaning/translation, a short English definition, exactly 4 example sentences (with their Indonesian translations), and its phonetic symbols in JSON format.
The sentences must be high-quality and suitable for IELTS Writing Task 2.
Provide one of each type: "Simple", "Complex", "Compound", "Compound-Complex".
Also provide the phonetic symbols for American (US) and British (UK) English.

IMPORTANT: You MUST return ONLY a JSON object. No intro text, no conversational filler.
Response format:
{
  "meaning": "Indonesian translation of the main word",
  "definition": "Short English definition",
  "phonetics": {
    "us": "/.../",
    "uk": "/.../"
  },
  "examples": [
    {"type": "Simple", "text": "English sentence...", "translation": "Indonesian translation..."},
    {"type": "Complex", "text": "English sentence...", "translation": "Indonesian translation..."},
    {"type": "Compound", "text": "English sentence...", "translation": "Indonesian translation..."},
    {"type": "Compound-Complex", "text": "English sentence...", "translation": "Indonesian translation..."}
  ]
}`, word)
}
