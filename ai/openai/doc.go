// Package openai implements the ai interfaces using OpenAI-compatible APIs.
//
// All services are built on langchaingo clients and work against any endpoint
// that speaks the OpenAI wire protocol, including local servers such as Ollama
// or llama.cpp. Extraction responses are requested in JSON mode and passed
// through a small repair step before parsing, since smaller local models
// produce malformed JSON with some regularity.
package openai
