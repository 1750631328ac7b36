// Package models provides functionality for listing and categorizing
// available OpenAI models. It helps users pick the chat and transcription
// models for the openai backend.
package models
