// Package officeai provides a conversational assistant for Microsoft Office
// questions. It answers from a local knowledge base that learns from user
// feedback, and falls back to a web-grounded language model when it does not
// know an answer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package officeai
