package bank

// questionSchema gates admin JSON imports. Kept inline so the binary is
// self-contained.
const questionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["topic", "difficulty", "question", "options", "correct_option"],
    "additionalProperties": false,
    "properties": {
      "topic": {
        "type": "string",
        "enum": ["python", "sql", "logical", "quant", "language", "statistics"]
      },
      "difficulty": {
        "type": "string",
        "enum": ["easy", "medium", "hard"]
      },
      "question": {"type": "string", "minLength": 1},
      "options": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "a": {"type": "string"},
          "b": {"type": "string"},
          "c": {"type": "string"},
          "d": {"type": "string"}
        }
      },
      "correct_option": {"type": "string", "pattern": "^[a-dA-D]$"}
    }
  }
}`
