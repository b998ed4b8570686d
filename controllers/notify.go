package controllers

import (
	"fmt"
	"log"

	"github.com/Temamamankabeto/ora-ebook/config"
	"github.com/Temamamankabeto/ora-ebook/models"
)

// Notification mail is best effort and runs after the transaction has
// committed; a mail failure never fails the workflow operation.

func authorEmail(ebookID int) (string, string, bool) {
	var ebook models.Ebook
	if err := config.DB.Preload("Author").Where("ebook_id = ?", ebookID).First(&ebook).Error; err != nil {
		return "", "", false
	}
	if ebook.Author.Email == "" {
		return "", "", false
	}
	return ebook.Author.Email, ebook.Title, true
}

func notifyDecision(ebookID int, decision string, comments *string) {
	email, title, ok := authorEmail(ebookID)
	if !ok {
		return
	}

	body := fmt.Sprintf("<p>Your manuscript <b>%s</b> received an editorial decision: %s.</p>", title, decision)
	if comments != nil && *comments != "" {
		body += fmt.Sprintf("<p>%s</p>", *comments)
	}

	go func() {
		if err := config.SendMail([]string{email}, "Editorial decision on your manuscript", body); err != nil {
			log.Printf("decision mail for ebook %d not sent: %v", ebookID, err)
		}
	}()
}

func notifyPublished(ebookID int) {
	email, title, ok := authorEmail(ebookID)
	if !ok {
		return
	}

	body := fmt.Sprintf("<p>Your manuscript <b>%s</b> has been published.</p>", title)

	go func() {
		if err := config.SendMail([]string{email}, "Your manuscript is published", body); err != nil {
			log.Printf("publication mail for ebook %d not sent: %v", ebookID, err)
		}
	}()
}
