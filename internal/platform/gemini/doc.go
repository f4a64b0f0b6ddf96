// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API to play the conversation partner
// in roleplay practice.
//
// This package is an infrastructure adapter: it translates between the
// application's conversation model and the Gemini API without exposing the
// details of the external service to the core application. It handles prompt
// assembly from the scenario framing and conversation history, retry logic
// with exponential backoff for transient errors, and translation of API
// errors to the generation package's error taxonomy.
package gemini
