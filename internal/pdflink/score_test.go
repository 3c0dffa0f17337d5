package pdflink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreVacancyNoticeBeatsComplianceDocs(t *testing.T) {
	title := "Senior Legal Officer"

	notice := Candidate{
		URL:  "https://careers.example.int/files/vacancy-notice-senior-legal-officer.pdf",
		Text: "Download vacancy notice",
	}
	privacy := Candidate{
		URL:  "https://careers.example.int/files/data-protection-notice.pdf",
		Text: "Data protection notice",
	}
	manual := Candidate{
		URL:  "https://careers.example.int/files/online-application-manual.pdf",
		Text: "Candidate manual",
	}

	noticeScore := Score(notice, title)
	assert.Greater(t, noticeScore, Score(privacy, title))
	assert.Greater(t, noticeScore, Score(manual, title))
}

func TestScoreWordDocsNeverQualify(t *testing.T) {
	c := Candidate{
		URL:  "https://careers.example.int/files/vacancy-notice.docx",
		Text: "Vacancy notice download",
	}

	//even a perfectly labeled candidate is disqualified by the .docx penalty
	assert.Less(t, Score(c, "Vacancy Notice"), Score(Candidate{URL: "https://x.test/vacancy-notice.pdf"}, "Vacancy Notice"))
}

func TestScoreTitleOverlapBreaksTies(t *testing.T) {
	title := "Procurement Assistant Vienna"

	matching := Candidate{URL: "https://x.test/files/procurement-assistant-vienna.pdf"}
	other := Candidate{URL: "https://x.test/files/budget-analyst-geneva.pdf"}

	assert.Greater(t, Score(matching, title), Score(other, title))
}

func TestScoreApplicationFormPenalty(t *testing.T) {
	form := Candidate{
		URL:  "https://x.test/files/application-form.pdf",
		Text: "Application form",
	}
	notice := Candidate{
		URL:  "https://x.test/files/notice.pdf",
		Text: "Notice",
	}

	assert.Less(t, Score(form, ""), Score(notice, ""))
}
