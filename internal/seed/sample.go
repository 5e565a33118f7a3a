package seed

import "github.com/nhle/letterbox/internal/model"

// Sample returns the three built-in letters.
func Sample() []model.Mail {
	return []model.Mail{
		{
			ID:      1,
			Sender:  "carl",
			Subject: "coffee on sunday?",
			Preview: "you up for some coffee on sunday?",
			Body: []string{
				"hey sam,",
				"you up for some coffee on sunday? was thinking bonanza in mitte",
				"Got a new bike, will do a tour in the morning and after we can meet up, was thinking around 11.",
				"Anyways, hope you are good x",
				"Carl",
			},
			StampRef:  "https://images.unsplash.com/photo-1542587224-7e4ee9b2a6c6?q=80&w=256&auto=format&fit=crop",
			Timestamp: "12:53",
		},
		{
			ID:      2,
			Sender:  "olivia",
			Subject: "slides for monday",
			Preview: "shared latest deck – take a look",
			Body: []string{
				"hey sam,",
				"just dropped the slides for monday's review. would love your notes by tonight if possible.",
				"thx!",
				"olivia",
			},
			StampRef:  "https://images.unsplash.com/photo-1541101767792-f9b2b1c4f127?q=80&w=256&auto=format&fit=crop",
			Timestamp: "09:41",
		},
		{
			ID:      3,
			Sender:  "devon",
			Subject: "tickets are in",
			Preview: "got us row c – see you there",
			Body: []string{
				"yo,",
				"tickets confirmed. will forward qr codes later today.",
				"cheers",
				"devon",
			},
			StampRef:  "https://images.unsplash.com/photo-1549888834-3ec93abae044?q=80&w=256&auto=format&fit=crop",
			Timestamp: "08:05",
		},
	}
}
