package officeai

// Seed is a fact loaded into an empty knowledge store.
type Seed struct {
	Topic    string
	Question string
	Answer   string
}

// InitialKnowledge is the starter knowledge base.
var InitialKnowledge = []Seed{
	{"base_office", "what is microsoft office", "Microsoft Office is a suite of productivity applications developed by Microsoft. It includes Word, Excel, PowerPoint, Outlook and Access, among others."},
	{"base_office", "what is microsoft office used for", "It is used to create documents, spreadsheets and presentations, and to manage email and databases."},
	{"base_office", "which applications does microsoft office include", "It includes Word, Excel, PowerPoint, Outlook, Access and other applications depending on the edition."},
	{"base_office", "difference between office 365 and office 2021", "Office 365 is a subscription with continuous updates. Office 2021 is a one-time purchase that receives no new features."},

	{"access", "what is access", "Access is a relational database manager from Microsoft."},
	{"access", "what is access used for", "It is used to build and manage databases with tables, queries and forms."},
	{"access", "what is a primary key", "A primary key uniquely identifies each record in a table."},
	{"access", "what is a table in access", "A table stores data organized in rows and columns."},

	{"word", "what is word", "Word is a word processor for writing documents such as letters, reports or assignments."},
	{"word", "what is word used for", "It is used to write, edit and format text documents."},
	{"word", "what are styles in word", "Styles apply predefined formatting to headings and body text."},
	{"word", "how to make a table of contents in word", "Apply heading styles, then use References > Table of Contents."},

	{"excel", "what is excel", "Excel is a spreadsheet for calculations, data analysis and charts."},
	{"excel", "what is excel used for", "It is used to work with numeric data, build tables, formulas, charts and pivot tables."},
	{"excel", "what is a cell in excel", "A cell is the intersection of a row and a column where data is entered."},
	{"excel", "what is a formula in excel", "A formula is an expression that performs calculations and always starts with the = sign."},
	{"excel", "what is a pivot table", "A pivot table summarizes and analyzes large amounts of data with little effort."},
	{"excel", "what is vlookup", "VLOOKUP is a function that searches for a value in the first column of a table."},

	{"powerpoint", "what is powerpoint", "PowerPoint is a tool for building slide presentations."},
	{"powerpoint", "what is powerpoint used for", "It presents information visually through text, images and charts."},
	{"powerpoint", "what is a slide", "A slide is one of the pages that make up a presentation."},
	{"powerpoint", "powerpoint shortcuts", "F5 starts the slideshow. Ctrl + M inserts a new slide."},

	{"outlook", "what is outlook", "Outlook is an application for managing email, calendars and contacts."},
	{"outlook", "what is outlook used for", "It is used to send and receive email and to organize appointments and tasks."},
	{"outlook", "what are rules in outlook", "Rules automate actions on incoming email."},

	{"general", "what is python", "Python is a popular programming language that is easy to learn and used in web development, data science and artificial intelligence."},
	{"general", "what is artificial intelligence", "Artificial intelligence is the simulation of intelligent processes by machines and software."},
	{"general", "what is the earth", "The Earth is the third planet of the solar system and the only one known to host life."},
	{"general", "what is the moon", "The Moon is the Earth's natural satellite and, among other things, drives the tides."},
	{"general", "how many continents are there", "There are seven continents: Africa, North America, South America, Asia, Europe, Oceania and Antarctica."},
	{"general", "which is the largest ocean", "The Pacific Ocean is the largest on the planet."},
	{"general", "who was albert einstein", "Albert Einstein was a German physicist, famous for the theory of relativity and his contributions to modern physics."},
	{"general", "what is the capital of france", "The capital of France is Paris."},
	{"general", "what is the capital of spain", "The capital of Spain is Madrid."},
}
