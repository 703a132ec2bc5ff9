// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import "strings"

// =============================================================================
// CHATBOT RULES
// =============================================================================

// responseRule pairs trigger keywords with a canned reply.
type responseRule struct {
	category string
	keywords []string
	response string
}

// responseRules drive Respond. Order matters: rules are checked top to
// bottom and the first keyword hit wins, so broad categories like
// stock_symbols sit below the more specific ones.
var responseRules = []responseRule{
	{
		category: "greeting",
		keywords: []string{"hello", "hi", "hey", "greetings"},
		response: "Hello! Welcome to Stock Price Prediction. How can I assist you today?",
	},
	{
		category: "help",
		keywords: []string{"help", "assist", "guide", "how to"},
		response: "I can help you with:\n- Stock price predictions\n- Model explanations\n- Data interpretation\n- FAQs\n- Technical support",
	},
	{
		category: "models",
		keywords: []string{"model", "lstm", "regression", "forest", "arima"},
		response: "We use 4 prediction models:\n1. **LSTM** - Deep learning for time series\n2. **Linear Regression** - Simple trend analysis\n3. **Random Forest** - Ensemble learning approach\n4. **ARIMA** - Statistical forecasting\nEach model provides different perspectives on price movements.",
	},
	{
		category: "prediction",
		keywords: []string{"predict", "forecast", "prediction", "future"},
		response: "To make a prediction:\n1. Click 'Start Prediction'\n2. Select a stock symbol\n3. Choose prediction days (1-30)\n4. Click 'Predict'\nResults will show predicted prices and model comparisons.",
	},
	{
		category: "accuracy",
		keywords: []string{"accuracy", "reliable", "accurate"},
		response: "Accuracy varies by stock and market conditions:\n- RMSE (Root Mean Square Error) measures prediction error\n- MAE (Mean Absolute Error) shows average deviation\n- Compare all models to find the best fit\n- Historical data improves predictions",
	},
	{
		category: "data",
		keywords: []string{"data", "download", "export", "csv"},
		response: "You can:\n- Download historical stock data\n- Export as CSV for analysis\n- Choose custom date ranges\n- Use data in your own models",
	},
	{
		category: "stock_symbols",
		keywords: []string{"symbol", "stock", "company", "ticker"},
		response: "Popular stocks available:\nAAPL (Apple), GOOGL (Google), MSFT (Microsoft), AMZN (Amazon), TSLA (Tesla), META (Meta), NFLX (Netflix), NVDA (NVIDIA), AMD (AMD), INTC (Intel)",
	},
	{
		category: "theme",
		keywords: []string{"dark", "light", "theme", "mode"},
		response: "You can toggle between light and dark themes using the theme switch in the top right corner!",
	},
	{
		category: "account",
		keywords: []string{"account", "login", "signup", "register", "password"},
		response: "Account management features:\n- Secure login with email/username\n- Password reset available\n- Remember me option\n- Profile settings",
	},
	{
		category: "faq",
		keywords: []string{"faq", "frequently", "question", "common"},
		response: "Check our FAQs page for:\n- Common questions about predictions\n- Model explanations\n- Data interpretation\n- Troubleshooting",
	},
}

// DefaultResponse is returned when no rule keyword appears in the message.
const DefaultResponse = "I'm here to help with stock predictions! Ask me about models, predictions, data, or any other features."

// Respond returns the canned reply for one user message.
//
// Matching rules:
//  1. The message is lowercased and whitespace-trimmed.
//  2. Rules are evaluated in registration order.
//  3. The first rule with any keyword contained in the message wins.
//  4. Messages matching nothing get DefaultResponse.
func Respond(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, rule := range responseRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.response
			}
		}
	}
	return DefaultResponse
}

// =============================================================================
// QUICK TIPS
// =============================================================================

// quickTips is the advice list the chat widget samples from when it opens.
var quickTips = []string{
	"📊 Compare all 4 models to get the best prediction insights",
	"📈 RMSE and MAE metrics help you understand model accuracy",
	"📥 Download historical data to analyze trends yourself",
	"🔄 Check predictions regularly as markets change daily",
	"🌙 Use dark mode for comfortable viewing at night",
	"💾 Export charts as images or PDFs for reports",
}

// QuickTips returns a copy of the tip list so callers cannot mutate it.
func QuickTips() []string {
	out := make([]string, len(quickTips))
	copy(out, quickTips)
	return out
}

// =============================================================================
// FAQ ENTRIES
// =============================================================================

// FAQ is one frequently asked question with its canned answer.
type FAQ struct {
	Question string
	Answer   string
	Category string
}

// faqs is the canned FAQ list shown in the help overlay.
var faqs = []FAQ{
	{
		Question: "What is LSTM?",
		Answer:   "LSTM (Long Short-Term Memory) is a type of recurrent neural network that can learn long-term dependencies in time series data.",
		Category: "Models",
	},
	{
		Question: "How accurate are the predictions?",
		Answer:   "Accuracy depends on historical data and market conditions. Compare RMSE and MAE metrics across models for best results.",
		Category: "Predictions",
	},
	{
		Question: "Can I download my data?",
		Answer:   "Yes! Use the 'Download Stock Data' feature to export historical data as CSV.",
		Category: "Features",
	},
	{
		Question: "What stock symbols are available?",
		Answer:   "We support AAPL, GOOGL, MSFT, AMZN, TSLA, META, NFLX, NVDA, AMD, INTC and more.",
		Category: "Data",
	},
}

// FAQs returns a copy of the FAQ list so callers cannot mutate it.
func FAQs() []FAQ {
	out := make([]FAQ, len(faqs))
	copy(out, faqs)
	return out
}
