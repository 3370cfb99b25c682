// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs via langchaingo. It works with any server speaking the OpenAI
// surface, including local Ollama, LocalAI and vLLM endpoints.
package openai
