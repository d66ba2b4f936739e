/*
The package pdu implements encoding of SMS-SUBMIT and decoding of SMS-DELIVER PDUs as they are exchanged
with a GSM modem in PDU mode. This implementation is based on:
  [TL]    3GPP TS 23.040 V16.0.0 (2020-07)
  [ALPHA] 3GPP TS 23.038 V16.0.0 (2020-07)
  [AT]    3GPP TS 27.005 V16.0.0 (2020-07)

The most relevant chapters in [TL] are 9.2.2 (PDU type repertoire) and 9.2.3 (definition of the TPDU parameters).

Abbreviations:
DCS:  Data Coding Scheme
PDU:  Protocol Data Unit
SMSC: Short Message Service Center
TOA:  Type Of Address
UDH:  User Data Header
UDL:  User Data Length

All functions in this package are pure: they never retain or share state and are safe for concurrent use.
*/
package pdu
