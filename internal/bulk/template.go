package bulk

// TemplateFilename is the suggested download name for the roster template.
const TemplateFilename = "technexus_bulk_template.csv"

const templateCSV = `email,badge_name,event_name,description,credential_id
user1@example.com,Technical Mentor,Web Workshop 2026,Awarded for exceptional mentorship,TN-WEB-2026-001
user2@example.com,Top Contributor,AI Hackathon,Awarded for community contribution,TN-AI-2026-999
`

// Template returns the sample roster offered for download: the expected
// header plus two illustrative rows.
func Template() []byte {
	return []byte(templateCSV)
}
